package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// SpawnerSystem drops entities at random points inside each spawner's area.
// A spawner with no interval fires once and is removed.
type SpawnerSystem struct {
	env *Env
}

func NewSpawnerSystem(env *Env) *SpawnerSystem {
	return &SpawnerSystem{env: env}
}

func (s *SpawnerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.SpawnerComponent.Kind(), func(e ecs.Entity, sp *component.Spawner) {
		if sp.Countdown > 0 {
			sp.Countdown--
			return
		}
		sp.Countdown = sp.IntervalFrames - 1

		if sp.MaxAlive > 0 && CountKind(w, sp.Kind) >= sp.MaxAlive {
			return
		}
		pos := cp.Vector{
			X: s.env.uniform(sp.MinX, sp.MaxX),
			Y: s.env.uniform(sp.MinY, sp.MaxY),
		}
		s.env.spawn(w, SpawnRequest{Kind: sp.Kind, Pos: pos})

		if sp.IntervalFrames <= 0 {
			ecs.Remove(w, e, component.SpawnerComponent.Kind())
		}
	})
}
