// Package brush implements the pixel compositing behind the refinement tools.
//
// An Engine paints circular dabs into the preview layer of a layers.Stack.
// Each tool maps to one compositing rule:
//
//   - Restore: copy pixels back from the original photo
//   - Erase: destination-out, clearing alpha
//   - PrecisionErase: Erase with a half-size tip
//   - SmartErase, SmartRestore: the same rules weighted by how close each
//     pixel's original color is to the color under the brush center, so
//     strokes stop at strong edges
//
// Dabs between two pointer samples are interpolated at a spacing
// proportional to the radius, so fast pointer movement leaves no gaps.
// Within a stroke the mask layer records the strongest coverage each pixel
// has received; overlapping dabs never compound past it.
//
// All operations are synchronous. Coordinates outside the buffer, including
// NaN and infinities, are clamped or ignored; nothing outside the buffer is
// ever touched.
package brush
