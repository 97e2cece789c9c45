package system

import (
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// Effect applies a collision outcome to subject after it touched other.
type Effect func(w *ecs.World, env *Env, subject, other ecs.Entity)

// Rule is one entry of the collision table. Rules with a lower Priority run
// first when both directions of a contact have a rule.
type Rule struct {
	Name     string
	Priority int
	Apply    Effect
}

const (
	priorityTerminal = iota
	priorityNormal
)

type kindPair struct {
	subject component.EntityKind
	other   component.EntityKind
}

var collisionRules = buildCollisionRules()

// RuleFor returns the rule applied when subject touches other.
func RuleFor(subject, other component.EntityKind) (Rule, bool) {
	r, ok := collisionRules[kindPair{subject: subject, other: other}]
	return r, ok
}

func buildCollisionRules() map[kindPair]Rule {
	rules := make(map[kindPair]Rule)
	add := func(subject, other component.EntityKind, r Rule) {
		rules[kindPair{subject: subject, other: other}] = r
	}

	blocked := Rule{Name: "projectile_blocked", Priority: priorityTerminal, Apply: projectileBlocked}
	reverse := Rule{Name: "patrol_reverse", Priority: priorityNormal, Apply: patrolReverse}
	fizzle := Rule{Name: "fireball_fizzle", Priority: priorityNormal, Apply: projectileBlocked}
	shot := Rule{Name: "shot_by_player", Priority: priorityNormal, Apply: shotByPlayer}

	for _, k := range component.AllKinds() {
		if k.IsStatic() {
			add(component.KindBullet, k, blocked)
			add(component.KindFireball, k, blocked)
			add(component.KindEnemyBasic, k, reverse)
		}
		if k.IsCharacter() && k != component.KindBoss && k != component.KindPlayer {
			add(component.KindFireball, k, fizzle)
		}
		if k.IsChaser() || k == component.KindBoss {
			add(k, component.KindBullet, shot)
		}
	}

	add(component.KindPlayer, component.KindCollectible, Rule{Name: "collect", Priority: priorityNormal, Apply: collect})
	add(component.KindPlayer, component.KindEnemyBasic, Rule{Name: "player_hurt", Priority: priorityNormal, Apply: playerHurt})
	add(component.KindEnemyBasic, component.KindPlayer, Rule{Name: "enemy_touched", Priority: priorityNormal, Apply: enemyTouched})
	add(component.KindPlayer, component.KindEnemyChaser, Rule{Name: "player_hurt_cue", Priority: priorityNormal, Apply: playerHurtCue})
	add(component.KindPlayer, component.KindEnemyChaser2, Rule{Name: "player_hurt_cue", Priority: priorityNormal, Apply: playerHurtCue})
	add(component.KindPlayer, component.KindBoss, Rule{Name: "player_hurt_cue", Priority: priorityNormal, Apply: playerHurtCue})
	add(component.KindFireball, component.KindPlayer, Rule{Name: "fireball_hit", Priority: priorityNormal, Apply: fireballHit})

	return rules
}

func collect(w *ecs.World, env *Env, player, item ecs.Entity) {
	credits := 10
	grant, frames := true, 0
	if c, ok := ecs.Get(w, item, component.CollectibleComponent.Kind()); ok {
		credits = c.Credits
		grant = c.GrantDoubleJump
		frames = c.DoubleJumpFrames
	}
	if !ecs.DestroyEntity(w, item) {
		return
	}
	env.addCredits(credits)
	if grant {
		GrantDoubleJump(w, player, frames)
	}
	env.playCue(CueCollect)
}

func playerHurt(_ *ecs.World, env *Env, _, _ ecs.Entity) {
	env.loseLife()
}

func playerHurtCue(_ *ecs.World, env *Env, _, _ ecs.Entity) {
	env.loseLife()
	env.playCue(CueHurt)
}

func enemyTouched(w *ecs.World, env *Env, enemy, _ ecs.Entity) {
	setAppearance(w, enemy, AppearanceEnemyHit)
	env.playCue(CueEnemyHit)
}

func shotByPlayer(w *ecs.World, env *Env, target, bullet ecs.Entity) {
	if !DestroyProjectile(w, bullet) {
		return
	}
	ApplyDamage(w, env, target, 1)
}

func fireballHit(w *ecs.World, env *Env, fireball, _ ecs.Entity) {
	if !DestroyProjectile(w, fireball) {
		return
	}
	env.loseLife()
	env.playCue(CueHurt)
}

func projectileBlocked(w *ecs.World, _ *Env, projectile, _ ecs.Entity) {
	DestroyProjectile(w, projectile)
}

func patrolReverse(w *ecs.World, _ *Env, enemy, _ ecs.Entity) {
	ReversePatrol(w, enemy)
}

// CollisionSystem resolves the contacts recorded during the last step.
type CollisionSystem struct {
	env *Env
}

func NewCollisionSystem(env *Env) *CollisionSystem {
	return &CollisionSystem{env: env}
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	events := w.Events()
	var rest []ecs.Event
	for _, evt := range events.Drain() {
		c, ok := evt.Data.(ContactEvent)
		if evt.Type != ContactEventType || !ok {
			rest = append(rest, evt)
			continue
		}
		s.Resolve(w, c.A, c.B)
	}
	for _, evt := range rest {
		events.Push(evt)
	}
}

// Resolve applies the rules for a contact between a and b in both
// directions. Contacts involving a destroyed entity are ignored.
func (s *CollisionSystem) Resolve(w *ecs.World, a, b ecs.Entity) {
	if !w.IsAlive(a) || !w.IsAlive(b) {
		return
	}
	ka, kb := kindOf(w, a), kindOf(w, b)

	type pending struct {
		rule           Rule
		subject, other ecs.Entity
	}
	var todo [2]pending
	n := 0
	if r, ok := RuleFor(ka, kb); ok {
		todo[n] = pending{rule: r, subject: a, other: b}
		n++
	}
	if r, ok := RuleFor(kb, ka); ok {
		todo[n] = pending{rule: r, subject: b, other: a}
		n++
	}
	if n == 2 && todo[1].rule.Priority < todo[0].rule.Priority {
		todo[0], todo[1] = todo[1], todo[0]
	}

	for _, p := range todo[:n] {
		if !w.IsAlive(p.subject) || !w.IsAlive(p.other) {
			continue
		}
		p.rule.Apply(w, s.env, p.subject, p.other)
	}
}
