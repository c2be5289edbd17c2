package image

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resample scales src to exactly w x h pixels using Catmull-Rom filtering.
// It is used when the cut-out returned by the service does not match the
// natural size of the source photo.
func Resample(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
