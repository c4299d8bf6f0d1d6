package math

// Clamp limits x to the range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Saturate clamps x to [0, 1].
func Saturate(x float32) float32 {
	return Clamp(x, 0, 1)
}

// Lerp returns a + t*(b - a).
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Step returns 1 if x > 0, else 0.
func Step(x float32) float32 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sign returns 1 for x >= 0 and -1 for x < 0.
// Note zero maps to 1, matching the sign convention octahedral mapping needs.
func Sign(x float32) float32 {
	if x >= 0 {
		return 1
	}
	return -1
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
