package system

import (
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

type fakeSession struct {
	lives   int
	credits int
}

func (f *fakeSession) LoseLife() {
	if f.lives > 0 {
		f.lives--
	}
}

func (f *fakeSession) AddCredits(n int) { f.credits += n }

type fakeDefeats struct{ count int }

func (f *fakeDefeats) RecordDefeat(ecs.Entity, component.EntityKind) { f.count++ }

type fakeCues struct{ played []string }

func (f *fakeCues) PlayCue(name string) { f.played = append(f.played, name) }

func (f *fakeCues) has(name string) bool {
	for _, p := range f.played {
		if p == name {
			return true
		}
	}
	return false
}

type spawnRecorder struct{ requests []SpawnRequest }

func (r *spawnRecorder) spawn(w *ecs.World, req SpawnRequest) (ecs.Entity, error) {
	r.requests = append(r.requests, req)
	return newEntity(w, req.Kind, req.Pos.X, req.Pos.Y, component.PhysicsBody{Radius: 0.2, NoGravity: true}), nil
}

type testEnv struct {
	env     *Env
	session *fakeSession
	defeats *fakeDefeats
	cues    *fakeCues
	spawns  *spawnRecorder
}

func newTestEnv() *testEnv {
	te := &testEnv{
		session: &fakeSession{lives: 3},
		defeats: &fakeDefeats{},
		cues:    &fakeCues{},
		spawns:  &spawnRecorder{},
	}
	te.env = &Env{
		Session: te.session,
		Defeats: te.defeats,
		Cues:    te.cues,
		Spawn:   te.spawns.spawn,
		Rand:    rand.New(rand.NewSource(1)),
	}
	return te
}

func newEntity(w *ecs.World, kind component.EntityKind, x, y float64, pb component.PhysicsBody) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Kind: kind})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &pb)
	_ = ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Name: AppearanceIdle})
	return e
}

func addProjectile(w *ecs.World, e ecs.Entity, lifespan float64) {
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Lifespan: lifespan})
}

func addHealth(w *ecs.World, e ecs.Entity, hp int) {
	_ = ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Max: hp, Current: hp})
}

func mustPosition(t *testing.T, w *ecs.World, e ecs.Entity) cp.Vector {
	t.Helper()
	p, ok := Position(w, e)
	if !ok {
		t.Fatalf("entity %v has no position", e)
	}
	return p
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
