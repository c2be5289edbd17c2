// Package layers holds the fixed four-buffer editing stack.
//
// Every buffer is a straight-alpha RGBA grid with the natural size of the
// source photo:
//
//   - Original: the source photo, read-only after load
//   - Processed: the automatic cut-out, read-only after load
//   - Mask: per-stroke working alpha used by brush tools
//   - Preview: the live edit target shown to the user
//
// Region reads and writes never fail on bad coordinates; the requested
// rectangle is intersected with the buffer bounds.
package layers
