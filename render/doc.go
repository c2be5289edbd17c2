// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render turns the refinement buffers into frames for a host
// surface.
//
// # Viewport
//
// A Viewport describes the host surface: its size and the tool panel docked
// to one side. The remaining canvas shows the image, fitted and centered by
// ComputeFit. Layout places one panel per visible buffer:
//
//   - ViewEdited: the preview buffer
//   - ViewOriginal: the original photo
//   - ViewComparison: original on the left, preview on the right, separated
//     by a divider
//
// ScreenToBuffer and BufferToScreen convert pointer positions through the
// panel under the pointer, so strokes land where they are drawn in every
// mode.
//
// # Rendering
//
// Renderer draws a Frame into a Target. Transparent pixels are shown over a
// checkerboard; comparison panels are captioned. Targets expose their pixel
// format as a gputypes.TextureFormat so hosts can upload frames to a GPU
// texture unchanged:
//
//	target := render.NewBGRATarget(w, h)
//	if err := renderer.RenderFrame(target, render.ViewComparison, orig, prev); err != nil {
//	    return err
//	}
//	queue.WriteTexture(tex, target.Pixels())
package render
