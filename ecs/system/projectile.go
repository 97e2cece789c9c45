package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// ProjectileSystem accumulates flight time after each step and destroys
// projectiles whose lifespan is exceeded or that left the world bounds.
type ProjectileSystem struct {
	// Bounds is ignored when empty.
	Bounds cp.BB
}

func NewProjectileSystem(bounds cp.BB) *ProjectileSystem {
	return &ProjectileSystem{Bounds: bounds}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *component.Projectile) {
		if p.Destroyed {
			return
		}
		p.Elapsed += common.StepDT
		if p.Lifespan > 0 && p.Elapsed > p.Lifespan {
			DestroyProjectile(w, e)
			return
		}
		if s.outside(w, e) {
			DestroyProjectile(w, e)
		}
	})
}

func (s *ProjectileSystem) outside(w *ecs.World, e ecs.Entity) bool {
	b := s.Bounds
	if b.R <= b.L || b.T <= b.B {
		return false
	}
	pos, ok := Position(w, e)
	if !ok {
		return false
	}
	return pos.X < b.L || pos.X > b.R || pos.Y < b.B || pos.Y > b.T
}

// LifetimeSystem counts down frame lifetimes and destroys expired entities.
type LifetimeSystem struct{}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.LifetimeComponent.Kind(), func(e ecs.Entity, lt *component.Lifetime) {
		if lt.Frames > 0 {
			lt.Frames--
			if lt.Frames > 0 {
				return
			}
		}
		ecs.DestroyEntity(w, e)
	})
}
