package images

import (
	"image"

	"github.com/disintegration/imaging"
)

// Fit scales picture down to fit into w x h box keeping aspect ratio. Smaller
// pictures are returned unchanged, terminal cells are coarse enough already.
func Fit(img image.Image, w, h int) image.Image {
	if img == nil || w <= 0 || h <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}
