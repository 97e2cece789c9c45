package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// GroundedEpsilon is the vertical speed under which the player counts as
// standing. Chipmunk leaves a tiny residual velocity on resting bodies.
const GroundedEpsilon = 1e-3

// Player appearance names.
const (
	AppearanceIdle      = "idle"
	AppearanceWalkLeft  = "walk_left"
	AppearanceWalkRight = "walk_right"
)

// PlayerSystem turns Input into walking, jumping and shooting.
type PlayerSystem struct {
	env *Env
}

func NewPlayerSystem(env *Env) *PlayerSystem {
	return &PlayerSystem{env: env}
}

func (s *PlayerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, p *component.Player, in *component.Input) {
		if in.Disabled {
			in.JumpPressed = false
			in.ShootPressed = false
			return
		}

		vel, ok := Velocity(w, e)
		if !ok {
			return
		}
		abilities, _ := ecs.Get(w, e, component.AbilitiesComponent.Kind())
		grounded := math.Abs(vel.Y) < GroundedEpsilon

		s.walk(w, e, p, in, vel)

		if in.JumpPressed {
			s.jump(w, e, p, abilities, in.Run, grounded)
			in.JumpPressed = false
		}
		if in.ShootPressed {
			s.shoot(w, e, p)
			in.ShootPressed = false
		}

		if v, ok := Velocity(w, e); ok {
			grounded = math.Abs(v.Y) < GroundedEpsilon
		}
		p.State = playerState(p, abilities, grounded)
	})
}

func (s *PlayerSystem) walk(w *ecs.World, e ecs.Entity, p *component.Player, in *component.Input, vel cp.Vector) {
	dir := common.Sign(in.MoveX)
	if dir == 0 {
		if p.Moving {
			p.Moving = false
			SetVelocity(w, e, cp.Vector{X: 0, Y: vel.Y})
			setAppearance(w, e, AppearanceIdle)
		}
		return
	}

	speed := p.WalkSpeed
	if in.Run {
		speed = p.RunSpeed
	}
	p.Facing = dir
	p.Moving = true
	SetVelocity(w, e, cp.Vector{X: dir * speed, Y: vel.Y})
	if dir < 0 {
		setAppearance(w, e, AppearanceWalkLeft)
	} else {
		setAppearance(w, e, AppearanceWalkRight)
	}
}

func (s *PlayerSystem) jump(w *ecs.World, e ecs.Entity, p *component.Player, abilities *component.Abilities, run, grounded bool) {
	impulse := p.JumpImpulse
	if run {
		impulse = p.RunJumpImpulse
	}

	if grounded {
		ApplyImpulse(w, e, cp.Vector{X: 0, Y: impulse})
		p.DoubleJumpUsed = false
		return
	}
	if abilities != nil && abilities.DoubleJump && !p.DoubleJumpUsed {
		ApplyImpulse(w, e, cp.Vector{X: 0, Y: impulse * p.DoubleJumpFactor})
		p.DoubleJumpUsed = true
	}
}

func (s *PlayerSystem) shoot(w *ecs.World, e ecs.Entity, p *component.Player) {
	pos, ok := Position(w, e)
	if !ok {
		return
	}
	facing := p.Facing
	if facing == 0 {
		facing = 1
	}
	dir := cp.Vector{X: facing, Y: 0}
	if _, ok := s.env.spawn(w, SpawnRequest{
		Kind: component.KindBullet,
		Pos:  pos.Add(dir.Mult(p.ShootOffset)),
		Dir:  dir,
	}); ok {
		s.env.playCue(CueShoot)
	}
}

func playerState(p *component.Player, abilities *component.Abilities, grounded bool) component.PlayerStateID {
	switch {
	case !grounded && abilities != nil && abilities.DoubleJump && !p.DoubleJumpUsed:
		return component.PlayerDoubleJumpWindow
	case !grounded:
		return component.PlayerJumping
	case p.Moving:
		return component.PlayerWalking
	default:
		return component.PlayerIdle
	}
}

func setAppearance(w *ecs.World, e ecs.Entity, name string) {
	if a, ok := ecs.Get(w, e, component.AppearanceComponent.Kind()); ok {
		a.Name = name
	}
}

// FallRecoverySystem returns a player that fell below its respawn point's
// fall limit, costing one life.
type FallRecoverySystem struct {
	env *Env
}

func NewFallRecoverySystem(env *Env) *FallRecoverySystem {
	return &FallRecoverySystem{env: env}
}

func (s *FallRecoverySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.RespawnPointComponent.Kind(), func(e ecs.Entity, rp *component.RespawnPoint) {
		pos, ok := Position(w, e)
		if !ok || pos.Y >= rp.FallLimit {
			return
		}
		s.env.loseLife()
		s.env.playCue(CueFall)
		SetVelocity(w, e, cp.Vector{})
		SetPosition(w, e, cp.Vector{X: rp.X, Y: rp.Y})
		if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
			pb.Body.SetAngularVelocity(0)
		}
	})
}

// AbilitySystem cancels timed abilities once their deadline frame passes.
type AbilitySystem struct{}

func NewAbilitySystem() *AbilitySystem {
	return &AbilitySystem{}
}

func (s *AbilitySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	frame := w.Frame()
	ecs.ForEach(w, component.AbilitiesComponent.Kind(), func(_ ecs.Entity, a *component.Abilities) {
		if a.DoubleJump && frame >= a.DoubleJumpUntil {
			a.DoubleJump = false
			a.DoubleJumpUntil = 0
		}
	})
}

// GrantDoubleJump enables the double jump on e for the given number of
// frames, extending any running grant.
func GrantDoubleJump(w *ecs.World, e ecs.Entity, frames int) bool {
	a, ok := ecs.Get(w, e, component.AbilitiesComponent.Kind())
	if !ok || frames <= 0 {
		return false
	}
	a.DoubleJump = true
	a.DoubleJumpUntil = w.Frame() + uint64(frames)
	return true
}
