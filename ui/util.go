package ui

// Clamp keeps v within lo and hi. lo must not be greater than hi.
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
