package system

import (
	"testing"

	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

func TestRuleFor(t *testing.T) {
	cases := []struct {
		name     string
		subject  component.EntityKind
		other    component.EntityKind
		rule     string
		priority int
	}{
		{"collect", component.KindPlayer, component.KindCollectible, "collect", priorityNormal},
		{"basic_enemy", component.KindPlayer, component.KindEnemyBasic, "player_hurt", priorityNormal},
		{"enemy_touched", component.KindEnemyBasic, component.KindPlayer, "enemy_touched", priorityNormal},
		{"chaser", component.KindPlayer, component.KindEnemyChaser, "player_hurt_cue", priorityNormal},
		{"chaser2", component.KindPlayer, component.KindEnemyChaser2, "player_hurt_cue", priorityNormal},
		{"boss", component.KindPlayer, component.KindBoss, "player_hurt_cue", priorityNormal},
		{"chaser_shot", component.KindEnemyChaser, component.KindBullet, "shot_by_player", priorityNormal},
		{"boss_shot", component.KindBoss, component.KindBullet, "shot_by_player", priorityNormal},
		{"fireball_player", component.KindFireball, component.KindPlayer, "fireball_hit", priorityNormal},
		{"fireball_enemy", component.KindFireball, component.KindEnemyBasic, "fireball_fizzle", priorityNormal},
		{"fireball_chaser2", component.KindFireball, component.KindEnemyChaser2, "fireball_fizzle", priorityNormal},
		{"fireball_ground", component.KindFireball, component.KindGround, "projectile_blocked", priorityTerminal},
		{"bullet_wall", component.KindBullet, component.KindWall, "projectile_blocked", priorityTerminal},
		{"bullet_moving_platform", component.KindBullet, component.KindMovingPlatform, "projectile_blocked", priorityTerminal},
		{"enemy_platform", component.KindEnemyBasic, component.KindPlatform, "patrol_reverse", priorityNormal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, ok := RuleFor(c.subject, c.other)
			if !ok {
				t.Fatalf("no rule for (%v, %v)", c.subject, c.other)
			}
			if r.Name != c.rule || r.Priority != c.priority {
				t.Fatalf("got %s/%d want %s/%d", r.Name, r.Priority, c.rule, c.priority)
			}
		})
	}

	absent := [][2]component.EntityKind{
		{component.KindFireball, component.KindBoss},
		{component.KindBullet, component.KindPlayer},
		{component.KindEnemyBasic, component.KindBullet},
		{component.KindGround, component.KindBullet},
		{component.KindPlayer, component.KindBall},
	}
	for _, pair := range absent {
		if r, ok := RuleFor(pair[0], pair[1]); ok {
			t.Fatalf("unexpected rule %q for (%v, %v)", r.Name, pair[0], pair[1])
		}
	}
}

func TestPlayerTouchesBasicEnemy(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	player := newEntity(w, component.KindPlayer, 0, 0, component.PhysicsBody{Width: 2.4, Height: 4.4})
	enemy := newEntity(w, component.KindEnemyBasic, 2, 0, component.PhysicsBody{Width: 2, Height: 4})

	NewCollisionSystem(te.env).Resolve(w, enemy, player)

	if te.session.lives != 2 {
		t.Fatalf("expected 2 lives, got %d", te.session.lives)
	}
	if !w.IsAlive(enemy) {
		t.Fatalf("basic enemy must survive contact")
	}
	a, _ := ecs.Get(w, enemy, component.AppearanceComponent.Kind())
	if a.Name != AppearanceEnemyHit {
		t.Fatalf("expected appearance %q, got %q", AppearanceEnemyHit, a.Name)
	}
	if !te.cues.has(CueEnemyHit) {
		t.Fatalf("expected %q cue, got %v", CueEnemyHit, te.cues.played)
	}
}

func TestChaserDefeatedOnce(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	sys := NewCollisionSystem(te.env)
	chaser := newEntity(w, component.KindEnemyChaser, 0, 0, component.PhysicsBody{Width: 3, Height: 3})
	addHealth(w, chaser, 5)

	for i := 1; i <= 7; i++ {
		bullet := newEntity(w, component.KindBullet, 1, 0, component.PhysicsBody{Radius: 0.2})
		addProjectile(w, bullet, 3)
		sys.Resolve(w, bullet, chaser)

		if i <= 5 && w.IsAlive(bullet) {
			t.Fatalf("hit %d: bullet should be consumed", i)
		}
		if i > 5 && !w.IsAlive(bullet) {
			t.Fatalf("hit %d: contact with a destroyed chaser must be ignored", i)
		}
		if i < 5 {
			h, ok := ecs.Get(w, chaser, component.HealthComponent.Kind())
			if !ok || h.Current != 5-i {
				t.Fatalf("hit %d: expected health %d, got %+v", i, 5-i, h)
			}
		}
		if i >= 5 && w.IsAlive(chaser) {
			t.Fatalf("hit %d: chaser should be destroyed", i)
		}
	}

	if te.defeats.count != 1 {
		t.Fatalf("expected defeat counter 1, got %d", te.defeats.count)
	}
}

func TestApplyDamageIgnoresDeadEntity(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	boss := newEntity(w, component.KindBoss, 0, 0, component.PhysicsBody{Width: 5, Height: 5})
	addHealth(w, boss, 1)

	if !ApplyDamage(w, te.env, boss, 1) {
		t.Fatalf("first lethal hit should report the kill")
	}
	for i := 0; i < 3; i++ {
		if ApplyDamage(w, te.env, boss, 1) {
			t.Fatalf("damage to a destroyed boss must be ignored")
		}
	}
	if te.defeats.count != 0 {
		t.Fatalf("boss defeat is polled, not counted; got %d", te.defeats.count)
	}
}

func TestFireballContacts(t *testing.T) {
	cases := []struct {
		name      string
		other     component.EntityKind
		livesLeft int
		destroyed bool
	}{
		{"player", component.KindPlayer, 2, true},
		{"ground", component.KindGround, 3, true},
		{"chaser", component.KindEnemyChaser, 3, true},
		{"boss", component.KindBoss, 3, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			te := newTestEnv()
			w := ecs.NewWorld()
			sys := NewCollisionSystem(te.env)
			fb := newEntity(w, component.KindFireball, 0, 0, component.PhysicsBody{Radius: 0.5})
			addProjectile(w, fb, 0)
			other := newEntity(w, c.other, 1, 0, component.PhysicsBody{Width: 1, Height: 1})

			sys.Resolve(w, other, fb)
			sys.Resolve(w, fb, other)

			if te.session.lives != c.livesLeft {
				t.Fatalf("expected %d lives, got %d", c.livesLeft, te.session.lives)
			}
			if w.IsAlive(fb) == c.destroyed {
				t.Fatalf("fireball alive=%v, want destroyed=%v", w.IsAlive(fb), c.destroyed)
			}
			if !w.IsAlive(other) {
				t.Fatalf("other participant must survive")
			}
		})
	}
}

func TestCollectGrantsCreditsAndDoubleJump(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	player := newEntity(w, component.KindPlayer, 0, 0, component.PhysicsBody{Width: 2.4, Height: 4.4})
	_ = ecs.Add(w, player, component.AbilitiesComponent.Kind(), &component.Abilities{})
	item := newEntity(w, component.KindCollectible, 1, 0, component.PhysicsBody{Radius: 1})
	_ = ecs.Add(w, item, component.CollectibleComponent.Kind(), &component.Collectible{Credits: 10, GrantDoubleJump: true, DoubleJumpFrames: 420})

	sys := NewCollisionSystem(te.env)
	sys.Resolve(w, item, player)
	sys.Resolve(w, player, item)

	if te.session.credits != 10 {
		t.Fatalf("expected 10 credits, got %d", te.session.credits)
	}
	if w.IsAlive(item) {
		t.Fatalf("collectible should be destroyed")
	}
	a, _ := ecs.Get(w, player, component.AbilitiesComponent.Kind())
	if !a.DoubleJump || a.DoubleJumpUntil != 420 {
		t.Fatalf("expected double jump until frame 420, got %+v", a)
	}
}

func TestCollisionSystemDrainsContactEvents(t *testing.T) {
	te := newTestEnv()
	w := ecs.NewWorld()
	enemy := newEntity(w, component.KindEnemyBasic, 0, 0, component.PhysicsBody{Width: 2, Height: 4})
	_ = ecs.Add(w, enemy, component.PatrolComponent.Kind(), &component.Patrol{Speed: 2, Direction: 1})
	ground := newEntity(w, component.KindGround, 0, -3, component.PhysicsBody{Type: component.BodyStatic, Width: 60, Height: 1})

	w.Events().Push(ecs.Event{Type: ContactEventType, Data: ContactEvent{A: ground, B: enemy}})
	w.Events().Push(ecs.Event{Type: "other"})
	ecs.DestroyEntity(w, ground)
	w.Events().Push(ecs.Event{Type: ContactEventType, Data: ContactEvent{A: enemy, B: ground}})

	NewCollisionSystem(te.env).Update(w)

	p, _ := ecs.Get(w, enemy, component.PatrolComponent.Kind())
	if p.Direction != 1 {
		t.Fatalf("contacts with a destroyed entity must be skipped, direction=%v", p.Direction)
	}
	if w.Events().Len() != 1 {
		t.Fatalf("expected unrelated event to be kept, queue has %d", w.Events().Len())
	}
}
