package image

// Fit returns the size of a w×h image scaled so that its longest edge is at
// most max. It never upscales, keeps the aspect ratio and floors each side,
// with a minimum of 1. A zero max disables scaling.
func Fit(w, h, max uint) (uint, uint) {
	if w == 0 || h == 0 || max == 0 {
		return w, h
	}
	long := w
	if h > long {
		long = h
	}
	if long <= max {
		return w, h
	}
	// floor(dim * max / long) in integers, exact where floats are not
	dw := uint(uint64(w) * uint64(max) / uint64(long))
	dh := uint(uint64(h) * uint64(max) / uint64(long))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh
}

// Modifier is the scale factor Fit applies, clamped to 1
func Modifier(w, h, max uint) float64 {
	long := w
	if h > long {
		long = h
	}
	if long == 0 || max == 0 || long <= max {
		return 1
	}
	return float64(max) / float64(long)
}
