package entity

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
	"github.com/milk9111/citygame/ecs/system"
	"github.com/milk9111/citygame/prefabs"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	game, err := prefabs.LoadGameSpec()
	if err != nil {
		t.Fatalf("load game spec: %v", err)
	}
	return NewBuilder(game)
}

func TestBuildEveryKind(t *testing.T) {
	b := newTestBuilder(t)
	for _, kind := range component.AllKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := b.Build(w, kind, 1, 2)
			if err != nil {
				t.Fatalf("build %v: %v", kind, err)
			}
			tag, ok := ecs.Get(w, e, component.TagComponent.Kind())
			if !ok || tag.Kind != kind {
				t.Fatalf("expected tag %v, got %+v", kind, tag)
			}
			tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
			if !ok || tr.X != 1 || tr.Y != 2 {
				t.Fatalf("expected transform (1,2), got %+v", tr)
			}
			if !ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
				t.Fatalf("missing physics body")
			}
		})
	}
}

func TestBuildTuning(t *testing.T) {
	b := newTestBuilder(t)
	w := ecs.NewWorld()

	chaser, err := b.Build(w, component.KindEnemyChaser, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	h, _ := ecs.Get(w, chaser, component.HealthComponent.Kind())
	c, _ := ecs.Get(w, chaser, component.ChaserComponent.Kind())
	if h.Current != 5 || c.Speed != 2 {
		t.Fatalf("chaser: health %+v chaser %+v", h, c)
	}

	chaser2, err := b.Build(w, component.KindEnemyChaser2, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := ecs.Get(w, chaser2, component.HealthComponent.Kind())
	pb2, _ := ecs.Get(w, chaser2, component.PhysicsBodyComponent.Kind())
	if h2.Current != 3 || pb2.Width != 3 || pb2.Height != 5 {
		t.Fatalf("chaser2: health %+v body %+v", h2, pb2)
	}

	item, err := b.Build(w, component.KindCollectible, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := ecs.Get(w, item, component.CollectibleComponent.Kind())
	if col.Credits != 10 || !col.GrantDoubleJump || col.DoubleJumpFrames != 420 {
		t.Fatalf("collectible: %+v", col)
	}

	ball, err := b.Build(w, component.KindBall, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	lt, _ := ecs.Get(w, ball, component.LifetimeComponent.Kind())
	if lt.Frames != 300 {
		t.Fatalf("ball lifetime: %+v", lt)
	}
}

func TestAppearanceSprites(t *testing.T) {
	b := newTestBuilder(t)
	w := ecs.NewWorld()

	cases := []struct {
		kind   component.EntityKind
		name   string
		want   string
		height float64
	}{
		{component.KindPlayer, system.AppearanceWalkLeft, "data/sonicLeft.png", 4},
		{component.KindPlayer, "unknown", "data/sonic.png", 4},
		{component.KindEnemyBasic, system.AppearanceEnemyHit, "data/enemy2.png", 4},
		{component.KindBoss, system.AppearanceIdle, "data/bossEnemy.png", 8},
	}
	for _, c := range cases {
		t.Run(c.kind.String()+"_"+c.name, func(t *testing.T) {
			e, err := b.Build(w, c.kind, 0, 0)
			if err != nil {
				t.Fatal(err)
			}
			a, _ := ecs.Get(w, e, component.AppearanceComponent.Kind())
			a.Name = c.name
			got, ok := a.Sprite()
			if !ok || got != c.want || a.SpriteHeight != c.height {
				t.Fatalf("expected %s at height %v, got %q ok=%v height=%v", c.want, c.height, got, ok, a.SpriteHeight)
			}
		})
	}

	ground, err := b.Build(w, component.KindGround, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := ecs.Get(w, ground, component.AppearanceComponent.Kind())
	if _, ok := a.Sprite(); ok {
		t.Fatalf("ground has no sprite and should be drawn as a block")
	}

	e := ecs.CreateEntity(w)
	raw := map[string]any{"name": "idle", "sprites": map[string]any{"idle": "data/x.png"}}
	if err := addAppearance(w, e, raw, nil); err == nil {
		t.Fatalf("sprites without a height must be rejected")
	}
}

func TestSpawnProjectiles(t *testing.T) {
	cases := []struct {
		name  string
		req   system.SpawnRequest
		vel   cp.Vector
		group uint
	}{
		{"bullet_left", system.SpawnRequest{Kind: component.KindBullet, Dir: cp.Vector{X: -1}}, cp.Vector{X: -10}, 0},
		{"fireball_grouped", system.SpawnRequest{Kind: component.KindFireball, Dir: cp.Vector{X: 0, Y: 2}, Group: 9}, cp.Vector{Y: 20}, 9},
		{"bullet_no_dir", system.SpawnRequest{Kind: component.KindBullet}, cp.Vector{X: 10}, 0},
		{"ball_velocity", system.SpawnRequest{Kind: component.KindBall, Dir: cp.Vector{X: -3, Y: 4}}, cp.Vector{X: -3, Y: 4}, 0},
	}
	b := newTestBuilder(t)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := b.Spawn(w, c.req)
			if err != nil {
				t.Fatal(err)
			}
			pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
			if pb.VelocityX != c.vel.X || pb.VelocityY != c.vel.Y {
				t.Fatalf("expected velocity %v, got (%v,%v)", c.vel, pb.VelocityX, pb.VelocityY)
			}
			if pb.Group != c.group {
				t.Fatalf("expected group %d, got %d", c.group, pb.Group)
			}
		})
	}
}

func TestBuildPlayerAndGeometry(t *testing.T) {
	b := newTestBuilder(t)
	w := ecs.NewWorld()

	player, err := b.BuildPlayer(w, 4, -5, component.RespawnPoint{X: 4, Y: -5, FallLimit: -15})
	if err != nil {
		t.Fatal(err)
	}
	if rp, ok := ecs.Get(w, player, component.RespawnPointComponent.Kind()); !ok || rp.FallLimit != -15 {
		t.Fatalf("missing respawn point: %+v", rp)
	}
	if a, ok := ecs.Get(w, player, component.AbilitiesComponent.Kind()); !ok || a.DoubleJump {
		t.Fatalf("fresh player must not have double jump: %+v", a)
	}

	ground, err := b.BuildBlock(w, component.KindGround, 0, -11.5, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	pb, _ := ecs.Get(w, ground, component.PhysicsBodyComponent.Kind())
	if pb.Type != component.BodyStatic || pb.Width != 60 || pb.Height != 1 {
		t.Fatalf("unexpected ground body %+v", pb)
	}

	plat, err := b.BuildBlock(w, component.KindPlatform, 3, 3, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	pb, _ = ecs.Get(w, plat, component.PhysicsBodyComponent.Kind())
	if pb.Width != 5 || pb.Height != 1 {
		t.Fatalf("unexpected platform size %+v", pb)
	}

	mover, err := b.BuildMovingPlatform(w, cp.Vector{X: -10, Y: -2}, cp.Vector{X: 10, Y: -2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	mp, _ := ecs.Get(w, mover, component.MovingPlatformComponent.Kind())
	if mp.EndX != 10 || mp.Speed != 0.05 || !mp.ToEnd {
		t.Fatalf("unexpected moving platform %+v", mp)
	}
}

func TestBuildErrors(t *testing.T) {
	w := ecs.NewWorld()
	b := NewBuilder(nil)
	if _, err := b.Build(w, component.KindPlayer, 0, 0); !errors.Is(err, ErrNoPrefab) {
		t.Fatalf("expected ErrNoPrefab, got %v", err)
	}
	if _, err := BuildEntity(w, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing prefab")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed builds must not leave entities, got %d", n)
	}
}
