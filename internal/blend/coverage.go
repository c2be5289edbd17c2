package blend

// DestinationOut applies Porter-Duff destination-out with source alpha c:
// Da' = Da * (1 - c). Color channels are left untouched so a later restore
// can bring the pixel back from the reference layer.
func DestinationOut(dst []byte, c byte) {
	if c == 0 {
		return
	}
	dst[3] = mulDiv255(dst[3], inv255(c))
}

// SourceLerp moves dst toward src by coverage c, interpolating in
// premultiplied space and storing the result with straight alpha.
//
// At c == 255 dst becomes an exact copy of src. For an opaque src the result
// equals source-over of src at alpha c.
func SourceLerp(dst, src []byte, c byte) {
	switch c {
	case 0:
		return
	case 255:
		copy(dst[:4], src[:4])
		return
	}

	w := float64(c) / 255
	sa := float64(src[3]) * w
	da := float64(dst[3]) * (1 - w)
	oa := sa + da
	if oa <= 0 {
		dst[3] = 0
		return
	}
	for i := 0; i < 3; i++ {
		dst[i] = round8((float64(src[i])*sa + float64(dst[i])*da) / oa)
	}
	dst[3] = round8(oa)
}

// Incremental returns the coverage that must be applied to a pixel already
// affected with coverage prev so the net effect equals coverage next.
//
// Both tool rules are interpolations toward a fixed target, so applying k on
// top of prev yields 1-(1-prev)(1-k) == next. Returns 0 when next <= prev.
func Incremental(prev, next byte) byte {
	if next <= prev {
		return 0
	}
	if next == 255 {
		return 255
	}
	num := uint16(next-prev) * 255
	den := uint16(inv255(prev))
	return byte((num + den/2) / den)
}
