package sink

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/dressup/pkg/errors"
)

// ParseColor parses #rgb, #rrggbb or #rrggbbaa. The leading # is optional.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, errors.New(errors.ErrCodeInvalidInput, "invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
