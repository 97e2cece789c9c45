package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// Basic enemy appearance after touching the player.
const AppearanceEnemyHit = "enemy_hit"

// PatrolSystem walks basic enemies between their bounds with the odd jump.
type PatrolSystem struct {
	env *Env
}

func NewPatrolSystem(env *Env) *PatrolSystem {
	return &PatrolSystem{env: env}
}

func (s *PatrolSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.PatrolComponent.Kind(), func(e ecs.Entity, p *component.Patrol) {
		pos, ok := Position(w, e)
		if !ok {
			return
		}
		vel, _ := Velocity(w, e)

		if p.Direction == 0 {
			p.Direction = 1
		}
		if p.Bound > 0 {
			if pos.X > p.Bound {
				p.Direction = -1
			} else if pos.X < -p.Bound {
				p.Direction = 1
			}
		}

		vel.X = p.Direction * p.Speed
		if p.JumpChance > 0 && s.env.float64() < p.JumpChance {
			vel.Y = p.JumpVelocity
		}
		SetVelocity(w, e, vel)
	})
}

// ReversePatrol flips a patrolling enemy's direction.
func ReversePatrol(w *ecs.World, e ecs.Entity) bool {
	p, ok := ecs.Get(w, e, component.PatrolComponent.Kind())
	if !ok {
		return false
	}
	if p.Direction == 0 {
		p.Direction = 1
	}
	p.Direction = -p.Direction
	return true
}

// ChaserSystem steers chasers horizontally toward the player while pushing
// them away from every other chaser.
type ChaserSystem struct{}

func NewChaserSystem() *ChaserSystem {
	return &ChaserSystem{}
}

func (s *ChaserSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	player, ok := FirstOfKind(w, component.KindPlayer)
	if !ok {
		return
	}
	target, ok := Position(w, player)
	if !ok {
		return
	}

	type peer struct {
		e   ecs.Entity
		pos cp.Vector
	}
	var peers []peer
	ecs.ForEach2(w, component.ChaserComponent.Kind(), component.TagComponent.Kind(), func(e ecs.Entity, _ *component.Chaser, tag *component.Tag) {
		if !tag.Kind.IsChaser() {
			return
		}
		if pos, ok := Position(w, e); ok {
			peers = append(peers, peer{e: e, pos: pos})
		}
	})

	others := make([]cp.Vector, 0, len(peers))
	for _, self := range peers {
		c, ok := ecs.Get(w, self.e, component.ChaserComponent.Kind())
		if !ok {
			continue
		}
		vel, _ := Velocity(w, self.e)

		others = others[:0]
		for _, o := range peers {
			if o.e != self.e {
				others = append(others, o.pos)
			}
		}

		radius, strength := c.SeparationRadius, c.SeparationStrength
		if radius <= 0 {
			radius = DefaultSeparationRadius
		}
		if strength <= 0 {
			strength = DefaultSeparationStrength
		}

		v := SteerHorizontal(self.pos, target, c.Speed, vel.Y)
		v.X += Separation(self.pos, others, radius, strength)
		SetVelocity(w, self.e, v)
	}
}

// BossSystem flies the boss toward the player and fires fireballs on a fixed
// cadence.
type BossSystem struct {
	env *Env
}

func NewBossSystem(env *Env) *BossSystem {
	return &BossSystem{env: env}
}

func (s *BossSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var target cp.Vector
	hasTarget := false
	if player, ok := FirstOfKind(w, component.KindPlayer); ok {
		target, hasTarget = Position(w, player)
	}

	ecs.ForEach(w, component.BossComponent.Kind(), func(e ecs.Entity, b *component.Boss) {
		pos, ok := Position(w, e)
		if !ok {
			return
		}

		if hasTarget {
			if v, ok := Steer(pos, target, b.Speed); ok {
				SetVelocity(w, e, v)
			}
		}

		b.StepsSinceShot++
		if b.FireInterval <= 0 || b.StepsSinceShot < b.FireInterval {
			return
		}
		b.StepsSinceShot = 0
		if hasTarget {
			s.fire(w, e, pos, target)
		}
	})
}

// fire aims a fireball at target, or to the right when the two coincide.
func (s *BossSystem) fire(w *ecs.World, boss ecs.Entity, pos, target cp.Vector) {
	dir := cp.Vector{X: 1, Y: 0}
	if d, ok := Steer(pos, target, 1); ok {
		dir = d
	}

	var group uint
	if pb, ok := ecs.Get(w, boss, component.PhysicsBodyComponent.Kind()); ok {
		group = pb.Group
	}
	if _, ok := s.env.spawn(w, SpawnRequest{
		Kind:  component.KindFireball,
		Pos:   pos,
		Dir:   dir,
		Group: group,
	}); ok {
		s.env.playCue(CueFireball)
	}
}
