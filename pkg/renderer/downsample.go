package renderer

import (
	"image"

	"github.com/nfnt/resize"
)

// Downsample shrinks a supersampled render by factor with a Lanczos filter.
// A factor of 1 or less returns img unchanged.
func Downsample(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, b.Dx()/factor)
	h := max(1, b.Dy()/factor)
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}
