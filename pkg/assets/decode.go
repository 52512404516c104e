package assets

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/dressup/pkg/errors"
)

// DecodeImage decodes data into an image. EXIF orientation, when present,
// is applied.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode image")
	}
	return img, nil
}

// DecodeSize returns the width and height DecodeImage would produce. Only
// the header is read, except for JPEGs carrying EXIF data, which are
// decoded so that orientation is applied the same way.
func DecodeSize(data []byte) (image.Point, error) {
	if hasExif(data) {
		img, err := DecodeImage(data)
		if err != nil {
			return image.Point{}, err
		}
		return img.Bounds().Size(), nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Point{}, errors.Wrap(errors.ErrCodeDecode, err, "decode image header")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Point{}, errors.New(errors.ErrCodeDecode, "image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

var (
	jpegSOI    = []byte{0xff, 0xd8}
	exifMarker = []byte("Exif\x00\x00")
)

// hasExif reports whether data is a JPEG with an EXIF segment.
func hasExif(data []byte) bool {
	return bytes.HasPrefix(data, jpegSOI) && bytes.Contains(data, exifMarker)
}
