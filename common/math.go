package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Normalize returns the unit vector of v. ok is false for a zero-length or
// non-finite vector, in which case the zero vector is returned.
func Normalize(v cp.Vector) (cp.Vector, bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return cp.Vector{}, false
	}
	return cp.Vector{X: v.X / l, Y: v.Y / l}, true
}

// WorldToScreen maps a world point to screen pixels with the origin at the
// screen centre and y pointing down.
func WorldToScreen(x, y float64) (float64, float64) {
	return ScreenWidth/2 + x*PixelsPerUnit, ScreenHeight/2 - y*PixelsPerUnit
}

// ScreenToWorld is the inverse of WorldToScreen.
func ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx - ScreenWidth/2) / PixelsPerUnit, (ScreenHeight/2 - sy) / PixelsPerUnit
}
