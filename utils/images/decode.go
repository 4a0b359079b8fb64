// Package images turns fetched chapter image files into pictures ready for
// display.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when data is not any image format we can show.
var ErrNotImage = errors.New("not an image")

// maxPixels bounds raster images by area, decoders allocate the whole pixel
// buffer from header values before reading any pixel data.
var maxPixels = maxRasterDim * maxRasterDim

// Decode verifies data is an image and decodes it. Returned format is the
// canonical extension of the detected content ("png", "jpeg", "svg", ...),
// which may differ from the name file was found under. SVG documents are
// rasterized into box of svgW x svgH keeping aspect ratio.
func Decode(data []byte, svgW, svgH int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty data: %w", ErrNotImage)
	}
	if IsSVG(data) {
		img, err := RasterizeSVGToImage(data, svgW, svgH)
		if err != nil {
			return nil, "", fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return img, "svg", nil
	}
	if !filetype.IsImage(data) {
		kind, _ := filetype.Match(data)
		if kind == filetype.Unknown {
			return nil, "", ErrNotImage
		}
		return nil, "", fmt.Errorf("content is %s: %w", kind.MIME.Value, ErrNotImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxPixels/cfg.Height {
		return nil, "", fmt.Errorf("image is %dx%d, larger than %d pixels: %w", cfg.Width, cfg.Height, maxPixels, ErrNotImage)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode image: %w", err)
	}
	return img, format, nil
}

// SameFormat reports whether file extension agrees with detected format.
func SameFormat(ext, format string) bool {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "."))
		switch s {
		case "jpg", "jpe", "jfif":
			return "jpeg"
		case "svgz":
			return "svg"
		}
		return s
	}
	return norm(ext) == norm(format)
}
