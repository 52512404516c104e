package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/internal/config"
	"github.com/matzehuels/dressup/pkg/catalog"
	"github.com/matzehuels/dressup/pkg/codec"
	"github.com/matzehuels/dressup/pkg/errors"
	"github.com/matzehuels/dressup/pkg/pipeline"
)

// assetTree writes a minimal catalog of PNGs and isolates the test from the
// user's config and cache.
func assetTree(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DRESSUP_CACHE", "none")
	t.Setenv("DRESSUP_ASSETS", "")
	t.Setenv("DRESSUP_REDIS_ADDR", "")

	root := t.TempDir()
	write := func(p string, img image.Image) {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	body := image.NewNRGBA(image.Rect(0, 0, 100, 200))
	for y := 0; y < 200; y++ {
		for x := 20; x < 80; x++ {
			i := body.PixOffset(x, y)
			body.Pix[i+3] = 0xff
		}
	}
	write("body/base.png", body)
	for _, p := range []string{"hair/bob.png", "shoes/flats.png", "up/tee.png", "up/long_sleeve.png", "down/jeans.png"} {
		write(p, image.NewNRGBA(image.Rect(0, 0, 40, 50)))
	}
	return root
}

// execute runs the root command and returns what it wrote to Out.
func execute(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	cmd := c.RootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--assets", root}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"catalog", "scan", "encode", "decode", "plan", "render", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCatalogJSON(t *testing.T) {
	root := assetTree(t)
	out, err := execute(t, root, "catalog", "--json", "up")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var got map[catalog.Category][]catalog.AssetItem
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	items := got[catalog.Up]
	if len(got) != 1 || len(items) != 2 {
		t.Fatalf("catalog up = %+v", got)
	}
	if items[0].URL != "up/long_sleeve.png" || items[0].PrettyLabel != "Long Sleeve" {
		t.Errorf("first up item = %+v", items[0])
	}

	if _, err := execute(t, root, "catalog", "hats"); !errors.Is(err, errors.ErrCodeInvalidCategory) {
		t.Errorf("unknown category err = %v", err)
	}
}

func TestEncode(t *testing.T) {
	root := assetTree(t)

	out, err := execute(t, root, "encode", "--up", "long sleeve", "--down", "jeans")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	code, err := codec.Parse(out)
	if err != nil {
		t.Fatalf("encode output %q: %v", out, err)
	}
	fields := codec.Fields(code)
	if fields[catalog.Up] != 1 || fields[catalog.Down] != 1 || fields[catalog.Dress] != 0 {
		t.Errorf("fields = %v", fields)
	}

	// Overriding a decoded code clears the top.
	out, err = execute(t, root, "encode", "--code", strconv.FormatUint(uint64(code), 10), "--up", "none")
	if err != nil {
		t.Fatalf("encode --code: %v", err)
	}
	cleared, _ := codec.Parse(out)
	if f := codec.Fields(cleared); f[catalog.Up] != 0 || f[catalog.Down] != 1 {
		t.Errorf("cleared fields = %v", f)
	}

	if _, err := execute(t, root, "encode", "--up", "hoodie"); !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Errorf("unknown item err = %v", err)
	}
	if _, err := execute(t, root, "encode", "--code", "nope"); !errors.Is(err, errors.ErrCodeInvalidCode) {
		t.Errorf("bad code err = %v", err)
	}
}

func TestDecodeRejectsBadCode(t *testing.T) {
	root := assetTree(t)
	if _, err := execute(t, root, "decode", "0x10000000"); !errors.Is(err, errors.ErrCodeInvalidCode) {
		t.Errorf("err = %v, want INVALID_CODE", err)
	}
}

func TestPlan(t *testing.T) {
	root := assetTree(t)
	out, err := execute(t, root, "plan", "--up", "tee", "--width", "200", "--height", "400")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if _, ok := res.Plan.Layer(catalog.Up); !ok {
		t.Errorf("no up layer in %+v", res.Plan.Layers)
	}
	if res.Plan.Stage == nil || res.Plan.Stage.ViewportWidth != 200 || res.Plan.Stage.Scale != 2 {
		t.Errorf("stage = %+v", res.Plan.Stage)
	}
	if res.Selection[catalog.Body] != "body/base.png" {
		t.Errorf("body not defaulted: %v", res.Selection)
	}
}

func TestRender(t *testing.T) {
	root := assetTree(t)
	target := filepath.Join(t.TempDir(), "out", "outfit.png")

	if _, err := execute(t, root, "render", "--down", "jeans", "--width", "150", "--height", "300", "--background", "#000", "-o", target); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(target)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 150 || b.Dy() != 300 {
		t.Errorf("canvas = %v, want 150x300", b)
	}

	if _, err := execute(t, root, "render", "--format", "svg"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format err = %v", err)
	}
	if _, err := execute(t, root, "render", "--background", "teal"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad background err = %v", err)
	}
}

func TestScan(t *testing.T) {
	root := assetTree(t)
	out, err := execute(t, root, "scan", "--json", filepath.Join(root, "body", "base.png"))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var meta struct {
		Width, Height int
		Torso         struct{ Left, Right int }
	}
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if meta.Width != 100 || meta.Height != 200 {
		t.Errorf("size = %dx%d", meta.Width, meta.Height)
	}
	if meta.Torso.Left != 30 || meta.Torso.Right != 70 {
		t.Errorf("torso x = %d..%d, want the window clip 30..70", meta.Torso.Left, meta.Torso.Right)
	}

	if _, err := execute(t, root, "scan", filepath.Join(root, "missing.png")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestCachePath(t *testing.T) {
	root := assetTree(t)
	dir := filepath.Join(t.TempDir(), "landmarks")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DRESSUP_CACHE", "")

	out, err := execute(t, root, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", out, dir)
	}

	if _, err := execute(t, root, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Errorf("cache clear on empty dir: %v", err)
	}
}

func TestCacheDirDefault(t *testing.T) {
	dir, err := cacheDir(config.Default())
	if err != nil {
		t.Fatalf("cacheDir: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCompleteItems(t *testing.T) {
	root := assetTree(t)
	c := New(io.Discard, LogInfo)
	c.assetsRoot = root

	got, dir := c.completeItems(catalog.Up)(nil, nil, "L")
	if dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", dir)
	}
	if len(got) != 1 || got[0] != "long_sleeve\tup/long_sleeve.png" {
		t.Errorf("completions = %q", got)
	}

	got, _ = c.completeItems(catalog.Up)(nil, nil, "")
	if len(got) != 3 || !strings.HasPrefix(got[0], "none\t") {
		t.Errorf("optional category completions = %q", got)
	}
	if got, _ := c.completeItems(catalog.Body)(nil, nil, ""); len(got) != 1 {
		t.Errorf("required category completions = %q", got)
	}
}

func TestFailExitCodes(t *testing.T) {
	c := New(io.Discard, LogInfo)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"cancelled", context.Canceled, 130},
		{"invalid", errors.New(errors.ErrCodeInvalidCode, "bad code"), 2},
		{"not found", errors.New(errors.ErrCodeFileNotFound, "missing"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Fail(tt.err); got != tt.want {
				t.Errorf("Fail() = %d, want %d", got, tt.want)
			}
		})
	}
}
