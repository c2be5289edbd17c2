// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/charactercut/refine/internal/cache"
	imgpool "github.com/charactercut/refine/internal/image"
)

// Default frame colors.
var (
	DefaultBackground = color.RGBA{R: 0x24, G: 0x24, B: 0x28, A: 0xff}
	checkerLight      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	checkerDark       = color.RGBA{R: 0xd6, G: 0xd6, B: 0xd6, A: 0xff}
	dividerColor      = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	labelBackground   = color.RGBA{A: 0xa0}
)

// checkerSize is the edge of one transparency checker cell in screen pixels.
const checkerSize = 8

// ErrNoSource is returned when a frame lacks an image its mode shows.
var ErrNoSource = errors.New("render: frame is missing a source image")

// Frame is the input of one render.
type Frame struct {
	Mode     ViewMode
	Original *image.NRGBA
	Preview  *image.NRGBA
	// AllowUpscale lets buffers smaller than the canvas grow to fill it.
	AllowUpscale bool
	// DividerWidth is the gap between comparison halves; zero or negative
	// selects DefaultDividerWidth.
	DividerWidth float64
	// HideLabels suppresses the "Original"/"Edited" captions.
	HideLabels bool
	// StaticOriginal promises that Original does not change between
	// frames, so its scaled copy can be reused.
	StaticOriginal bool
}

// Renderer draws frames into targets. Scaled copies of the buffers are
// drawn through scratch images taken from a pool. Scaled copies of images
// marked static in a Frame are kept between frames.
//
// Renderer is not safe for concurrent use. The same Frame always produces
// the same pixels.
type Renderer struct {
	pool       *imgpool.Pool
	static     *cache.Cache[scaledKey, *image.NRGBA]
	background color.RGBA
	scaler     xdraw.Scaler
}

// scaledKey identifies a scaled copy of a static image.
type scaledKey struct {
	src        *image.NRGBA
	full, dest image.Rectangle
}

// staticCacheSize is the number of scaled static images kept.
const staticCacheSize = 4

// NewRenderer creates a renderer using pool for scratch images. A nil pool
// allocates a private one.
func NewRenderer(pool *imgpool.Pool) *Renderer {
	if pool == nil {
		pool = imgpool.NewPool(4)
	}
	return &Renderer{
		pool:       pool,
		static:     cache.New[scaledKey, *image.NRGBA](staticCacheSize, pool.Put),
		background: DefaultBackground,
		scaler:     xdraw.ApproxBiLinear,
	}
}

// Purge drops every cached scaled image. Call it when a static image is
// replaced.
func (r *Renderer) Purge() {
	r.static.Clear()
}

// SetBackground sets the color drawn outside the image panels.
func (r *Renderer) SetBackground(c color.Color) {
	r.background = color.RGBAModel.Convert(c).(color.RGBA)
}

// RenderFrame draws original and preview for mode using default frame
// settings.
func (r *Renderer) RenderFrame(t Target, mode ViewMode, original, preview *image.NRGBA) error {
	return r.Render(t, Frame{Mode: mode, Original: original, Preview: preview})
}

// Render draws f into t, covering every pixel of the target.
func (r *Renderer) Render(t Target, f Frame) error {
	dst, bgra, err := canvasOf(t)
	if err != nil {
		return err
	}
	ref := f.Preview
	if ref == nil {
		ref = f.Original
	}
	if ref == nil {
		return ErrNoSource
	}
	bw, bh := ref.Rect.Dx(), ref.Rect.Dy()

	vp := Viewport{
		Width:        float64(dst.Rect.Dx()),
		Height:       float64(dst.Rect.Dy()),
		AllowUpscale: f.AllowUpscale,
		DividerWidth: f.DividerWidth,
	}
	panels := vp.Layout(f.Mode, bw, bh)

	draw.Draw(dst, dst.Rect, image.NewUniform(r.background), image.Point{}, draw.Src)
	for _, p := range panels {
		src := f.Preview
		if p.Source == SourceOriginal {
			src = f.Original
		}
		if src == nil {
			return ErrNoSource
		}
		r.drawPanel(dst, p, src, f.StaticOriginal && p.Source == SourceOriginal)
		if !f.HideLabels && len(panels) > 1 {
			drawLabel(dst, p, bw, bh)
		}
	}
	if len(panels) > 1 {
		x0 := int(panels[0].Area.X + panels[0].Area.W + 0.5)
		x1 := int(panels[1].Area.X + 0.5)
		if x1 > x0 {
			draw.Draw(dst, image.Rect(x0, 0, x1, dst.Rect.Dy()), image.NewUniform(dividerColor), image.Point{}, draw.Src)
		}
	}

	if bgra {
		swapRB(dst)
	}
	return nil
}

// drawPanel draws the checkerboard and then the scaled buffer over it.
func (r *Renderer) drawPanel(dst *image.RGBA, p Panel, src *image.NRGBA, static bool) {
	rect := p.Dest(src.Rect.Dx(), src.Rect.Dy()).Intersect(dst.Rect)
	if rect.Empty() {
		return
	}
	drawChecker(dst, rect)

	key := scaledKey{src: src, full: p.Dest(src.Rect.Dx(), src.Rect.Dy()), dest: rect}
	if static {
		if scaled, ok := r.static.Get(key); ok {
			draw.Draw(dst, rect, scaled, image.Point{}, draw.Over)
			return
		}
	}
	scaled := r.scale(p, src, rect)
	draw.Draw(dst, rect, scaled, image.Point{}, draw.Over)
	if static {
		r.static.Put(key, scaled)
		return
	}
	r.pool.Put(scaled)
}

// scale returns a pooled image holding the part rect of src scaled into
// the panel.
func (r *Renderer) scale(p Panel, src *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	scaled := r.pool.Get(rect.Dx(), rect.Dy())
	full := p.Dest(src.Rect.Dx(), src.Rect.Dy())
	if full == rect {
		r.scaler.Scale(scaled, scaled.Rect, src, src.Rect, draw.Src, nil)
	} else {
		// Clipped by the target: scale the whole buffer with the same
		// transform, then keep the visible part.
		whole := r.pool.Get(full.Dx(), full.Dy())
		defer r.pool.Put(whole)
		r.scaler.Scale(whole, whole.Rect, src, src.Rect, draw.Src, nil)
		draw.Draw(scaled, scaled.Rect, whole, rect.Min.Sub(full.Min), draw.Src)
	}
	return scaled
}

// drawChecker fills rect with the transparency checkerboard, aligned to the
// rectangle origin.
func drawChecker(dst *image.RGBA, rect image.Rectangle) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		cy := (y - rect.Min.Y) / checkerSize
		row := dst.Pix[dst.PixOffset(rect.Min.X, y):]
		for x := 0; x < rect.Dx(); x++ {
			c := checkerLight
			if (x/checkerSize+cy)%2 == 1 {
				c = checkerDark
			}
			i := 4 * x
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

// drawLabel captions a panel in its top-left corner.
func drawLabel(dst *image.RGBA, p Panel, bw, bh int) {
	face := basicfont.Face7x13
	const pad = 4
	w := font.MeasureString(face, p.Label).Ceil()
	h := face.Height
	origin := p.Dest(bw, bh).Min.Add(image.Pt(pad, pad))
	box := image.Rect(origin.X, origin.Y, origin.X+w+2*pad, origin.Y+h+2*pad).Intersect(dst.Rect)
	if box.Empty() {
		return
	}
	draw.Draw(dst, box, image.NewUniform(labelBackground), image.Point{}, draw.Over)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(origin.X+pad, origin.Y+pad+face.Ascent),
	}
	d.DrawString(p.Label)
}
