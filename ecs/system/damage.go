package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// ApplyDamage takes amount from e's health. When health reaches zero the
// entity is marked dead, chasers are reported to the defeat counter, and the
// entity is destroyed. It returns true only for the hit that killed e;
// damage to dead or destroyed entities is ignored.
func ApplyDamage(w *ecs.World, env *Env, e ecs.Entity, amount int) bool {
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || h.Dead || amount <= 0 {
		return false
	}

	h.Current -= amount
	if h.Current > 0 {
		return false
	}
	h.Current = 0
	h.Dead = true

	kind := kindOf(w, e)
	if kind.IsChaser() {
		env.recordDefeat(e, kind)
	}
	env.playCue(CueDefeat)
	log.Debug("entity defeated", "entity", e, "kind", kind)

	ecs.DestroyEntity(w, e)
	return true
}

// DestroyProjectile destroys a projectile once. Later calls report false.
func DestroyProjectile(w *ecs.World, e ecs.Entity) bool {
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	if !ok || p.Destroyed {
		return false
	}
	p.Destroyed = true
	return ecs.DestroyEntity(w, e)
}
