package image

import (
	"image"

	"github.com/nfnt/resize"
)

// Fit scale m down to fit in maxWidth x maxHeight keeping its aspect ratio.
// A zero bound is ignored and m is never scaled up.
func Fit(m image.Image, maxWidth, maxHeight uint) image.Image {
	b := m.Bounds()
	ow, oh := uint(b.Dx()), uint(b.Dy())
	if ow == 0 || oh == 0 {
		return m
	}
	w, h := ow, oh
	if maxWidth > 0 && w > maxWidth {
		h = uint(float64(h) * float64(maxWidth) / float64(w))
		w = maxWidth
	}
	if maxHeight > 0 && h > maxHeight {
		w = uint(float64(w) * float64(maxHeight) / float64(h))
		h = maxHeight
	}
	if w == ow && h == oh {
		return m
	}
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return resize.Resize(w, h, m, resize.Lanczos3)
}
