package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// PlatformSystem shuttles moving platforms between their endpoints.
type PlatformSystem struct{}

func NewPlatformSystem() *PlatformSystem {
	return &PlatformSystem{}
}

func (s *PlatformSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.MovingPlatformComponent.Kind(), func(e ecs.Entity, mp *component.MovingPlatform) {
		cur, ok := Position(w, e)
		if !ok {
			return
		}
		target := cp.Vector{X: mp.StartX, Y: mp.StartY}
		if mp.ToEnd {
			target = cp.Vector{X: mp.EndX, Y: mp.EndY}
		}

		if cur.Distance(target) < mp.Epsilon {
			mp.ToEnd = !mp.ToEnd
			return
		}
		dir, ok := common.Normalize(target.Sub(cur))
		if !ok {
			mp.ToEnd = !mp.ToEnd
			return
		}
		SetPosition(w, e, cur.Add(dir.Mult(mp.Speed)))
	})
}
