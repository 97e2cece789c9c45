package level

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
	"github.com/milk9111/citygame/ecs/system"
	"github.com/milk9111/citygame/levels"
)

type fakeSession struct {
	lives   int
	credits int
}

func (s *fakeSession) LoseLife()        { s.lives-- }
func (s *fakeSession) AddCredits(n int) { s.credits += n }

func newTestLevel(t *testing.T, ordinal int) (*Level, *fakeSession) {
	t.Helper()
	def, err := levels.Load(ordinal)
	if err != nil {
		t.Fatalf("load level %d: %v", ordinal, err)
	}
	sess := &fakeSession{lives: 3}
	l, err := New(def, Config{Session: sess, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("build level %d: %v", ordinal, err)
	}
	t.Cleanup(l.Stop)
	return l, sess
}

func TestPopulateLevels(t *testing.T) {
	cases := []struct {
		ordinal int
		counts  map[component.EntityKind]int
	}{
		{1, map[component.EntityKind]int{
			component.KindPlayer:     1,
			component.KindGround:     1,
			component.KindWall:       1,
			component.KindPlatform:   4,
			component.KindEnemyBasic: 2,
		}},
		{2, map[component.EntityKind]int{
			component.KindPlayer:         1,
			component.KindMovingPlatform: 2,
			component.KindEnemyChaser:    1,
			component.KindEnemyChaser2:   1,
		}},
		{3, map[component.EntityKind]int{
			component.KindPlayer: 1,
			component.KindBoss:   1,
			component.KindWall:   0,
		}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("level%d", c.ordinal), func(t *testing.T) {
			l, _ := newTestLevel(t, c.ordinal)
			for kind, want := range c.counts {
				if got := system.CountKind(l.World(), kind); got != want {
					t.Fatalf("level %d: %d %v, want %d", c.ordinal, got, kind, want)
				}
			}
			if l.Ordinal() != c.ordinal || l.Objective() == "" {
				t.Fatalf("unexpected metadata: ordinal=%d objective=%q", l.Ordinal(), l.Objective())
			}
		})
	}
}

func TestPlayerStartsFresh(t *testing.T) {
	l, _ := newTestLevel(t, 2)
	pos, ok := l.PlayerPosition()
	if !ok || pos.X != 0 || pos.Y != -5 {
		t.Fatalf("unexpected player start %v ok=%v", pos, ok)
	}
	a, ok := ecs.Get(l.World(), l.Player(), component.AbilitiesComponent.Kind())
	if !ok || a.DoubleJump {
		t.Fatalf("new player must start without double jump: %+v", a)
	}
	rp, ok := ecs.Get(l.World(), l.Player(), component.RespawnPointComponent.Kind())
	if !ok || rp.X != 4 || rp.Y != -5 || rp.FallLimit != -15 {
		t.Fatalf("unexpected respawn point %+v", rp)
	}
}

func TestLevelOneStartsWithTwoCollectibles(t *testing.T) {
	l, sess := newTestLevel(t, 1)
	if n := system.CountKind(l.World(), component.KindCollectible); n != 0 {
		t.Fatalf("no collectible before the first step, got %d", n)
	}
	l.Update()
	// A collectible dropped onto the player is picked up in the same step.
	n := system.CountKind(l.World(), component.KindCollectible) + sess.credits/10
	if n != 2 {
		t.Fatalf("expected the opening and the periodic collectible after the first step, got %d", n)
	}
	l.Update()
	spawners := 0
	ecs.ForEach(l.World(), component.SpawnerComponent.Kind(), func(ecs.Entity, *component.Spawner) { spawners++ })
	if spawners != 1 {
		t.Fatalf("the opening spawner should be spent, %d spawners left", spawners)
	}
}

func TestLevelOneCompletesOnCredits(t *testing.T) {
	l, _ := newTestLevel(t, 1)
	if l.Complete(19) {
		t.Fatalf("19 credits must not complete level 1")
	}
	if !l.Complete(20) {
		t.Fatalf("20 credits must complete level 1")
	}
}

func TestLevelTwoCompletesOnDefeats(t *testing.T) {
	l, _ := newTestLevel(t, 2)
	w := l.World()
	chaser, _ := system.FirstOfKind(w, component.KindEnemyChaser)
	chaser2, _ := system.FirstOfKind(w, component.KindEnemyChaser2)

	for i := 0; i < 7; i++ {
		system.ApplyDamage(w, l.env, chaser, 1)
	}
	if l.Defeated() != 1 || l.Complete(0) {
		t.Fatalf("one defeat must not complete level 2, defeated=%d", l.Defeated())
	}
	l.RecordDefeat(chaser, component.KindEnemyChaser)
	if l.Defeated() != 1 {
		t.Fatalf("repeat defeat reports must not double count")
	}

	for i := 0; i < 3; i++ {
		system.ApplyDamage(w, l.env, chaser2, 1)
	}
	if l.Defeated() != 2 || !l.Complete(0) {
		t.Fatalf("two defeats must complete level 2, defeated=%d", l.Defeated())
	}
}

func TestLevelThreeCompletesOnBoss(t *testing.T) {
	l, _ := newTestLevel(t, 3)
	w := l.World()
	boss, ok := system.FirstOfKind(w, component.KindBoss)
	if !ok {
		t.Fatalf("level 3 must have a boss")
	}
	for i := 0; i < 4; i++ {
		system.ApplyDamage(w, l.env, boss, 1)
	}
	if l.BossDefeated() || l.Complete(100) {
		t.Fatalf("boss with health left must not complete level 3")
	}
	system.ApplyDamage(w, l.env, boss, 1)
	if !l.BossDefeated() || !l.Complete(0) {
		t.Fatalf("boss at zero health must complete level 3")
	}
	if l.Defeated() != 0 {
		t.Fatalf("boss is polled, not counted, got %d", l.Defeated())
	}
}

func TestFallRecoveryThroughLevel(t *testing.T) {
	l, sess := newTestLevel(t, 3)
	l.Update()
	if !l.PlacePlayer(cp.Vector{X: 0, Y: -20}) {
		t.Fatalf("place player failed")
	}
	l.Update()
	if sess.lives != 2 {
		t.Fatalf("falling must cost a life, lives=%d", sess.lives)
	}
	pos, _ := l.PlayerPosition()
	if pos.X != 4 || pos.Y != -5 {
		t.Fatalf("player should be back at the respawn point, got %v", pos)
	}
}

func TestSpawnBallCap(t *testing.T) {
	l, _ := newTestLevel(t, 3)
	for i := 0; i < 5; i++ {
		if !l.SpawnBall(cp.Vector{X: float64(i), Y: 5}) {
			t.Fatalf("ball %d should spawn", i)
		}
	}
	if l.SpawnBall(cp.Vector{}) {
		t.Fatalf("sixth ball must be refused")
	}
	if n := system.CountKind(l.World(), component.KindBall); n != 5 {
		t.Fatalf("expected 5 balls, got %d", n)
	}
}

func TestCommandsSetInput(t *testing.T) {
	l, _ := newTestLevel(t, 3)
	l.Move(-1, true)
	l.Jump()
	l.Shoot()
	in, _ := ecs.Get(l.World(), l.Player(), component.InputComponent.Kind())
	if in.MoveX != -1 || !in.Run || !in.JumpPressed || !in.ShootPressed {
		t.Fatalf("unexpected input %+v", in)
	}
	l.Update()
	if in.JumpPressed || in.ShootPressed {
		t.Fatalf("one-shot commands must be consumed by a step: %+v", in)
	}
	if n := system.CountKind(l.World(), component.KindBullet); n != 1 {
		t.Fatalf("expected a bullet, got %d", n)
	}
}

func TestStop(t *testing.T) {
	l, _ := newTestLevel(t, 2)
	l.Stop()
	l.Stop()
	if n := len(ecs.Entities(l.World())); n != 0 {
		t.Fatalf("stop must destroy every entity, %d left", n)
	}
	if !l.Stopped() || l.Complete(100) {
		t.Fatalf("stopped level must not report completion")
	}
	frame := l.World().Frame()
	l.Update()
	if l.World().Frame() != frame {
		t.Fatalf("stopped level must not step")
	}
	if l.SpawnBall(cp.Vector{}) {
		t.Fatalf("stopped level must not spawn")
	}
}
