package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

func newPlayer(w *ecs.World, x, y float64) ecs.Entity {
	e := newEntity(w, component.KindPlayer, x, y, component.PhysicsBody{Width: 2.4, Height: 4.4, FixedRotation: true})
	_ = ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		WalkSpeed:        3,
		RunSpeed:         6,
		JumpImpulse:      140,
		RunJumpImpulse:   170,
		DoubleJumpFactor: 0.8,
		ShootOffset:      1.5,
		Facing:           1,
	})
	_ = ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
	_ = ecs.Add(w, e, component.AbilitiesComponent.Kind(), &component.Abilities{})
	_ = ecs.Add(w, e, component.RespawnPointComponent.Kind(), &component.RespawnPoint{X: 4, Y: -5, FallLimit: -15})
	return e
}

func input(w *ecs.World, e ecs.Entity) *component.Input {
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	return in
}

func TestPlayerWalk(t *testing.T) {
	cases := []struct {
		name       string
		moveX      float64
		run        bool
		vx         float64
		appearance string
		state      component.PlayerStateID
	}{
		{"walk_left", -1, false, -3, AppearanceWalkLeft, component.PlayerWalking},
		{"run_right", 1, true, 6, AppearanceWalkRight, component.PlayerWalking},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := newPlayer(w, 0, 0)
			sys := NewPlayerSystem(newTestEnv().env)

			in := input(w, e)
			in.MoveX, in.Run = c.moveX, c.run
			sys.Update(w)

			v, _ := Velocity(w, e)
			if !near(v.X, c.vx) {
				t.Fatalf("expected vx %v, got %v", c.vx, v.X)
			}
			a, _ := ecs.Get(w, e, component.AppearanceComponent.Kind())
			if a.Name != c.appearance {
				t.Fatalf("expected appearance %q, got %q", c.appearance, a.Name)
			}
			p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
			if p.State != c.state || p.Facing != c.moveX {
				t.Fatalf("unexpected player state %+v", p)
			}

			in.MoveX = 0
			sys.Update(w)
			v, _ = Velocity(w, e)
			if v.X != 0 {
				t.Fatalf("stop should zero vx, got %v", v.X)
			}
			if a.Name != AppearanceIdle {
				t.Fatalf("stop should restore idle appearance, got %q", a.Name)
			}
		})
	}
}

func TestPlayerJumpAndDoubleJump(t *testing.T) {
	w := ecs.NewWorld()
	e := newPlayer(w, 0, 0)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	sys := NewPlayerSystem(newTestEnv().env)

	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if pb.Body == nil {
		t.Fatalf("expected body after sync")
	}
	mass := BodyMass(pb)
	jump := 140 / mass

	input(w, e).JumpPressed = true
	sys.Update(w)
	if v, _ := Velocity(w, e); !near(v.Y, jump) {
		t.Fatalf("expected vy %v after ground jump, got %v", jump, v.Y)
	}
	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	if p.State != component.PlayerJumping {
		t.Fatalf("expected jumping, got %v", p.State)
	}

	// airborne without the ability: nothing happens
	input(w, e).JumpPressed = true
	sys.Update(w)
	if v, _ := Velocity(w, e); !near(v.Y, jump) {
		t.Fatalf("air jump without ability changed vy to %v", v.Y)
	}

	GrantDoubleJump(w, e, 420)
	sys.Update(w)
	if p.State != component.PlayerDoubleJumpWindow {
		t.Fatalf("expected double jump window, got %v", p.State)
	}

	input(w, e).JumpPressed = true
	sys.Update(w)
	want := jump + 0.8*jump
	if v, _ := Velocity(w, e); !near(v.Y, want) {
		t.Fatalf("expected vy %v after double jump, got %v", want, v.Y)
	}
	if !p.DoubleJumpUsed {
		t.Fatalf("double jump should be consumed")
	}

	input(w, e).JumpPressed = true
	sys.Update(w)
	if v, _ := Velocity(w, e); !near(v.Y, want) {
		t.Fatalf("second double jump must not fire, vy %v", v.Y)
	}
}

func TestPlayerShoot(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	e := newPlayer(w, 2, 1)
	sys := NewPlayerSystem(te.env)

	input(w, e).ShootPressed = true
	sys.Update(w)

	in := input(w, e)
	in.MoveX = -1
	in.ShootPressed = true
	sys.Update(w)

	if len(te.spawns.requests) != 2 {
		t.Fatalf("expected 2 bullets, got %d", len(te.spawns.requests))
	}
	right, left := te.spawns.requests[0], te.spawns.requests[1]
	if right.Kind != component.KindBullet || !near(right.Pos.X, 3.5) || !near(right.Pos.Y, 1) || right.Dir != (cp.Vector{X: 1}) {
		t.Fatalf("unexpected right shot %+v", right)
	}
	if !near(left.Pos.X, 0.5) || left.Dir != (cp.Vector{X: -1}) {
		t.Fatalf("unexpected left shot %+v", left)
	}
	if in.ShootPressed {
		t.Fatalf("shoot should be consumed")
	}
}

func TestFallRecovery(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	e := newPlayer(w, 0, -16)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	SetVelocity(w, e, cp.Vector{X: 3, Y: -20})

	NewFallRecoverySystem(te.env).Update(w)

	if te.session.lives != 2 {
		t.Fatalf("expected one life lost, lives=%d", te.session.lives)
	}
	pos := mustPosition(t, w, e)
	if !near(pos.X, 4) || !near(pos.Y, -5) {
		t.Fatalf("expected respawn at (4,-5), got %v", pos)
	}
	if v, _ := Velocity(w, e); v.X != 0 || v.Y != 0 {
		t.Fatalf("expected zero velocity, got %v", v)
	}

	NewFallRecoverySystem(te.env).Update(w)
	if te.session.lives != 2 {
		t.Fatalf("player above the fall limit must not lose lives, lives=%d", te.session.lives)
	}
}

func TestDoubleJumpExpires(t *testing.T) {
	w := ecs.NewWorld()
	e := newPlayer(w, 0, 0)
	s := ecs.NewScheduler(NewAbilitySystem())

	GrantDoubleJump(w, e, 2)
	a, _ := ecs.Get(w, e, component.AbilitiesComponent.Kind())

	s.Update(w)
	s.Update(w)
	if !a.DoubleJump {
		t.Fatalf("ability expired early at frame %d", w.Frame())
	}
	s.Update(w)
	if a.DoubleJump {
		t.Fatalf("ability should expire once frame %d is reached", a.DoubleJumpUntil)
	}
}
