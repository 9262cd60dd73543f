package widget

import (
	"image"

	"gioui.org/op/paint"
)

// CachedImage is a cacheable image operation, used for media message
// content and avatars.
type CachedImage paint.ImageOp

// Cache the image if it is not already. The first call computes the
// image operation, subsequent calls noop.
func (img *CachedImage) Cache(src image.Image) {
	if img == nil || src == nil {
		return
	}
	if paint.ImageOp(*img) == (paint.ImageOp{}) {
		*img = CachedImage(paint.NewImageOp(src))
	}
}

// Op returns the concrete image operation.
func (img CachedImage) Op() paint.ImageOp {
	return paint.ImageOp(img)
}
