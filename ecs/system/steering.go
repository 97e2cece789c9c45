package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
)

const (
	DefaultSeparationRadius   = 4.0
	DefaultSeparationStrength = 8.0
)

// Steer returns the velocity that moves p straight toward t at speed. ok is
// false when p and t coincide; callers keep their current velocity then.
func Steer(p, t cp.Vector, speed float64) (cp.Vector, bool) {
	dir, ok := common.Normalize(t.Sub(p))
	if !ok {
		return cp.Vector{}, false
	}
	return dir.Mult(speed), true
}

// SteerHorizontal moves along x only and keeps the current vertical velocity
// so gravity and jumps are not overridden.
func SteerHorizontal(p, t cp.Vector, speed, currentVY float64) cp.Vector {
	return cp.Vector{X: common.Sign(t.X-p.X) * speed, Y: currentVY}
}

// Separation returns the horizontal repulsion p receives from peers closer
// than radius. Each peer contributes strength/d along the unit vector away
// from it.
func Separation(p cp.Vector, peers []cp.Vector, radius, strength float64) float64 {
	var vx float64
	for _, q := range peers {
		away := p.Sub(q)
		d := away.Length()
		if d <= 0 || d >= radius {
			continue
		}
		dir, ok := common.Normalize(away)
		if !ok {
			continue
		}
		vx += dir.X * strength / d
	}
	return vx
}
