package catalog

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"

	"github.com/matzehuels/dressup/pkg/errors"
)

// imageExts lists the file extensions picked up by [LoadDir].
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// LoadDir builds a catalog from a directory tree laid out as
// <category>/<file>. URLs are slash-separated paths relative to the root and
// labels are file stems. Missing category directories yield empty categories;
// other subdirectories and non-image files are ignored.
func LoadDir(fsys fs.FS) (*Catalog, error) {
	entries := make(map[Category][]AssetItem)
	for _, cat := range Categories {
		dir, err := fs.ReadDir(fsys, string(cat))
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s directory", cat)
		}
		for _, de := range dir {
			if de.IsDir() || !imageExts[strings.ToLower(path.Ext(de.Name()))] {
				continue
			}
			url := path.Join(string(cat), de.Name())
			entries[cat] = append(entries[cat], AssetItem{URL: url, Label: labelFromPath(url)})
		}
	}
	return New(entries)
}

// manifestTOML is the TOML manifest layout:
//
//	[[asset]]
//	category = "up"
//	url = "up/shirt_2_blue.png"
//	label = "shirt 2 blue"
type manifestTOML struct {
	Assets []manifestAsset `toml:"asset"`
}

type manifestAsset struct {
	Category    string `toml:"category"`
	URL         string `toml:"url"`
	Label       string `toml:"label"`
	PrettyLabel string `toml:"pretty_label"`
}

// ParseTOML builds a catalog from a TOML manifest.
func ParseTOML(data []byte) (*Catalog, error) {
	var m manifestTOML
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse catalog manifest")
	}
	entries := make(map[Category][]AssetItem)
	for _, a := range m.Assets {
		cat, err := ParseCategory(a.Category)
		if err != nil {
			return nil, err
		}
		entries[cat] = append(entries[cat], AssetItem{URL: a.URL, Label: a.Label, PrettyLabel: a.PrettyLabel})
	}
	return New(entries)
}

// ParseJSON builds a catalog from a JSON manifest keyed by category:
//
//	{"up": [{"url": "up/tee.png", "label": "tee"}], "body": ["body/base.png"]}
//
// Items may be objects or bare URL strings.
func ParseJSON(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "catalog manifest is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "catalog manifest must be a JSON object")
	}

	entries := make(map[Category][]AssetItem)
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		cat, err := ParseCategory(key.String())
		if err != nil {
			parseErr = err
			return false
		}
		value.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				entries[cat] = append(entries[cat], AssetItem{URL: v.String()})
				return true
			}
			entries[cat] = append(entries[cat], AssetItem{
				URL:         v.Get("url").String(),
				Label:       v.Get("label").String(),
				PrettyLabel: v.Get("pretty_label").String(),
			})
			return true
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return New(entries)
}

// LoadFile reads a catalog manifest, choosing the parser by extension
// (.toml or .json). A directory path is scanned with [LoadDir].
func LoadFile(p string) (*Catalog, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open catalog %s", p)
	}
	if info.IsDir() {
		return LoadDir(os.DirFS(p))
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read catalog %s", p)
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format: %s", p)
	}
}
