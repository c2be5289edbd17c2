// Package refine is an interactive engine for touching up automatic
// background removal.
//
// A Session holds a source photo, the cut-out produced for it, and a live
// preview the user edits with brush strokes. Restore brings back pixels of
// the photo the cut-out dropped; Erase clears pixels it kept. Every stroke
// can be undone, and the preview can be exported as a PNG at any time.
//
// # Quick Start
//
//	s, err := refine.NewSession(refine.WithHistoryLimit(30))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Load(ctx, photoPNG, cutoutPNG); err != nil {
//	    return err
//	}
//	s.SetViewport(1280, 800, 280)
//	_ = s.SetTool(brush.Erase)
//
//	s.PointerDown(refine.PointerEvent{X: 400, Y: 300})
//	s.PointerMove(refine.PointerEvent{X: 420, Y: 310, Time: 16 * time.Millisecond})
//	s.PointerUp(refine.PointerEvent{X: 420, Y: 310, Time: 32 * time.Millisecond})
//
//	png, err := s.ExportPreview()
//
// # Input
//
// Pointer events arrive in surface coordinates and are mapped into the image
// through the current viewport on every event, so resizing or switching the
// view mode between events is safe. Events that do not fit the stroke state
// machine (a move without a press, a second press) are ignored.
//
// # Frames
//
// Frame renders into a render.Target only when something visible changed
// since the previous frame. Render always draws.
//
// # Concurrency
//
// A Session is not safe for concurrent use. All methods except Load return
// without blocking; Load honors context cancellation between decoding steps.
package refine
