package system

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// Audio cue names.
const (
	CueEnemyHit = "enemy_hit"
	CueHurt     = "hurt"
	CueCollect  = "collect"
	CueShoot    = "shoot"
	CueFireball = "fireball"
	CueDefeat   = "defeat"
	CueFall     = "fall"
)

// Session is the part of the session state the simulation mutates.
type Session interface {
	LoseLife()
	AddCredits(n int)
}

// CuePlayer plays short sound effects by name.
type CuePlayer interface {
	PlayCue(name string)
}

// DefeatCounter is told once about every enemy shot down.
type DefeatCounter interface {
	RecordDefeat(e ecs.Entity, kind component.EntityKind)
}

// SpawnRequest describes an entity created at runtime. For projectiles Dir
// is a direction scaled by the prefab speed; other kinds take it as their
// initial velocity.
type SpawnRequest struct {
	Kind  component.EntityKind
	Pos   cp.Vector
	Dir   cp.Vector
	Group uint
}

// SpawnFunc builds an entity into the world.
type SpawnFunc func(w *ecs.World, req SpawnRequest) (ecs.Entity, error)

// Env bundles the collaborators systems report to. Every field is optional.
type Env struct {
	Session Session
	Defeats DefeatCounter
	Cues    CuePlayer
	Spawn   SpawnFunc
	Rand    *rand.Rand
}

func (env *Env) loseLife() {
	if env != nil && env.Session != nil {
		env.Session.LoseLife()
	}
}

func (env *Env) addCredits(n int) {
	if env != nil && env.Session != nil {
		env.Session.AddCredits(n)
	}
}

func (env *Env) playCue(name string) {
	if env != nil && env.Cues != nil {
		env.Cues.PlayCue(name)
	}
}

func (env *Env) recordDefeat(e ecs.Entity, kind component.EntityKind) {
	if env != nil && env.Defeats != nil {
		env.Defeats.RecordDefeat(e, kind)
	}
}

func (env *Env) spawn(w *ecs.World, req SpawnRequest) (ecs.Entity, bool) {
	if env == nil || env.Spawn == nil {
		return 0, false
	}
	e, err := env.Spawn(w, req)
	if err != nil {
		log.Warn("spawn failed", "kind", req.Kind, "err", err)
		return 0, false
	}
	return e, true
}

func (env *Env) float64() float64 {
	if env != nil && env.Rand != nil {
		return env.Rand.Float64()
	}
	return rand.Float64()
}

// uniform returns a value in [lo, hi).
func (env *Env) uniform(lo, hi float64) float64 {
	return lo + env.float64()*(hi-lo)
}
