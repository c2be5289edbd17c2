// Package blend provides the per-pixel compositing rules used by brush tools.
//
// Pixels are stored with straight (non-premultiplied) alpha, 4 bytes per
// pixel in R, G, B, A order, matching image.NRGBA. A brush weight is an 8-bit
// coverage value: 0 leaves the destination untouched, 255 applies the rule
// fully.
//
// The div255 helpers avoid integer division. Only the exact variant is used
// here because undo/redo and restore must be bit-reproducible.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255Exact divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
func div255Exact(x uint16) uint16 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255 exactly.
func mulDiv255(a, b byte) byte {
	return byte(div255Exact(uint16(a) * uint16(b)))
}

// inv255 computes 255 - x (inverse alpha).
func inv255(x byte) byte {
	return 255 - x
}

// round8 rounds a non-negative value to the nearest byte, clamping to 255.
func round8(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 254.5 {
		return 255
	}
	return byte(v + 0.5)
}
