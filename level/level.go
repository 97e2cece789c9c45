package level

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
	"github.com/milk9111/citygame/ecs/entity"
	"github.com/milk9111/citygame/ecs/system"
	"github.com/milk9111/citygame/levels"
	"github.com/milk9111/citygame/prefabs"
)

// Config carries the collaborators a level reports to.
type Config struct {
	Game    *prefabs.GameSpec
	Session system.Session
	Cues    system.CuePlayer
	Rand    *rand.Rand
}

// Level owns the world of one stage: its entities, physics space, systems
// and completion rule.
type Level struct {
	def       *levels.Definition
	game      *prefabs.GameSpec
	world     *ecs.World
	physics   *system.PhysicsSystem
	scheduler *ecs.Scheduler
	builder   *entity.Builder
	env       *system.Env
	rule      *Rule
	rng       *rand.Rand
	logger    *log.Logger

	player   ecs.Entity
	boss     ecs.Entity
	hasBoss  bool
	defeated map[ecs.Entity]struct{}
	stopped  bool
}

// New builds and populates the level described by def.
func New(def *levels.Definition, cfg Config) (*Level, error) {
	if def == nil {
		return nil, fmt.Errorf("level: nil definition")
	}
	game := cfg.Game
	if game == nil {
		var err error
		if game, err = prefabs.LoadGameSpec(); err != nil {
			return nil, err
		}
	}
	rule, err := CompileRule(def.Completion)
	if err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	l := &Level{
		def:      def,
		game:     game,
		world:    ecs.NewWorld(),
		physics:  system.NewPhysicsSystem(),
		builder:  entity.NewBuilder(game),
		rule:     rule,
		rng:      rng,
		logger:   log.WithPrefix(fmt.Sprintf("level%d", def.Ordinal)),
		defeated: map[ecs.Entity]struct{}{},
	}
	l.env = &system.Env{
		Session: cfg.Session,
		Defeats: l,
		Cues:    cfg.Cues,
		Spawn:   l.builder.Spawn,
		Rand:    rng,
	}

	bounds := cp.BB{L: game.Bounds.MinX, B: game.Bounds.MinY, R: game.Bounds.MaxX, T: game.Bounds.MaxY}
	l.scheduler = ecs.NewScheduler(
		system.NewAbilitySystem(),
		system.NewPlayerSystem(l.env),
		system.NewPatrolSystem(l.env),
		system.NewChaserSystem(),
		system.NewBossSystem(l.env),
		system.NewPlatformSystem(),
		system.NewSpawnerSystem(l.env),
		l.physics,
		system.NewCollisionSystem(l.env),
		system.NewProjectileSystem(bounds),
		system.NewLifetimeSystem(),
		system.NewFallRecoverySystem(l.env),
	)

	if err := l.populate(); err != nil {
		l.Stop()
		return nil, fmt.Errorf("level %d: populate: %w", def.Ordinal, err)
	}
	l.physics.Sync(l.world)
	l.logger.Info("level ready", "name", def.Name, "entities", len(ecs.Entities(l.world)))
	return l, nil
}

func (l *Level) populate() error {
	w := l.world
	for _, b := range l.def.Blocks {
		kind, _ := component.ParseKind(b.Kind)
		if _, err := l.builder.BuildBlock(w, kind, b.X, b.Y, b.Width, b.Height); err != nil {
			return err
		}
	}
	if rp := l.def.RandomPlatforms; rp != nil {
		if err := l.scatterPlatforms(rp); err != nil {
			return err
		}
	}
	for _, mp := range l.def.MovingPlatforms {
		start := cp.Vector{X: mp.Start.X, Y: mp.Start.Y}
		end := cp.Vector{X: mp.End.X, Y: mp.End.Y}
		if _, err := l.builder.BuildMovingPlatform(w, start, end, mp.Speed); err != nil {
			return err
		}
	}
	for _, spec := range l.def.Entities {
		kind, _ := component.ParseKind(spec.Kind)
		e, err := l.builder.Build(w, kind, spec.X, spec.Y)
		if err != nil {
			return err
		}
		if kind == component.KindBoss && !l.hasBoss {
			l.boss, l.hasBoss = e, true
		}
	}
	for _, sp := range l.def.Spawners {
		kind, _ := component.ParseKind(sp.Kind)
		if _, err := entity.BuildSpawner(w, component.Spawner{
			Kind:           kind,
			IntervalFrames: common.FramesFor(sp.IntervalSeconds),
			MinX:           sp.MinX,
			MaxX:           sp.MaxX,
			MinY:           sp.MinY,
			MaxY:           sp.MaxY,
			MaxAlive:       sp.MaxAlive,
		}); err != nil {
			return err
		}
	}

	respawn := l.def.RespawnPoint(levels.Point{X: l.game.Respawn.X, Y: l.game.Respawn.Y})
	player, err := l.builder.BuildPlayer(w, l.def.Player.X, l.def.Player.Y, component.RespawnPoint{
		X:         respawn.X,
		Y:         respawn.Y,
		FallLimit: l.game.FallLimit,
	})
	if err != nil {
		return err
	}
	l.player = player
	return nil
}

// scatterPlatforms places static platforms at random, skipping any that
// would sit closer than MinSpacing to one already placed.
func (l *Level) scatterPlatforms(rp *levels.RandomPlatforms) error {
	attempts := rp.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	placed := make([]cp.Vector, 0, rp.Count)
	for i := 0; i < rp.Count; i++ {
		for try := 0; try < attempts; try++ {
			pos := cp.Vector{X: l.uniform(rp.MinX, rp.MaxX), Y: l.uniform(rp.MinY, rp.MaxY)}
			width := l.uniform(rp.MinWidth, rp.MaxWidth)
			if tooClose(pos, placed, rp.MinSpacing) {
				continue
			}
			if _, err := l.builder.BuildBlock(l.world, component.KindPlatform, pos.X, pos.Y, width, 0); err != nil {
				return err
			}
			placed = append(placed, pos)
			break
		}
	}
	if len(placed) < rp.Count {
		l.logger.Debug("placed fewer random platforms than requested", "placed", len(placed), "want", rp.Count)
	}
	return nil
}

func tooClose(p cp.Vector, placed []cp.Vector, spacing float64) bool {
	for _, q := range placed {
		if p.Distance(q) < spacing {
			return true
		}
	}
	return false
}

func (l *Level) uniform(lo, hi float64) float64 {
	return lo + l.rng.Float64()*(hi-lo)
}

// Update advances the level by one step. Stopped levels do nothing.
func (l *Level) Update() {
	if l == nil || l.stopped {
		return
	}
	l.scheduler.Update(l.world)
}

// Complete evaluates the completion rule. Rule failures count as incomplete.
func (l *Level) Complete(credits int) bool {
	if l == nil || l.stopped {
		return false
	}
	ok, err := l.rule.Eval(Stats{
		Credits:      credits,
		Defeated:     len(l.defeated),
		BossDefeated: l.BossDefeated(),
		Frame:        l.world.Frame(),
	})
	if err != nil {
		l.logger.Warn("completion rule failed", "rule", l.rule, "err", err)
		return false
	}
	return ok
}

// RecordDefeat counts each defeated enemy once.
func (l *Level) RecordDefeat(e ecs.Entity, kind component.EntityKind) {
	if _, seen := l.defeated[e]; seen {
		return
	}
	l.defeated[e] = struct{}{}
	l.logger.Info("enemy defeated", "kind", kind, "defeated", len(l.defeated))
}

func (l *Level) Defeated() int {
	return len(l.defeated)
}

// BossDefeated reports whether this level had a boss and it is gone.
func (l *Level) BossDefeated() bool {
	return l.hasBoss && !l.world.IsAlive(l.boss)
}

// Stop destroys every entity and releases the physics space. It is safe to
// call more than once.
func (l *Level) Stop() {
	if l == nil || l.stopped {
		return
	}
	l.stopped = true
	for _, e := range ecs.Entities(l.world) {
		ecs.DestroyEntity(l.world, e)
	}
	l.physics.Close()
	l.logger.Debug("level stopped")
}

func (l *Level) Stopped() bool { return l.stopped }

func (l *Level) Ordinal() int            { return l.def.Ordinal }
func (l *Level) Name() string            { return l.def.Name }
func (l *Level) Objective() string       { return l.def.Objective }
func (l *Level) Music() string           { return l.def.Music }
func (l *Level) BackgroundImage() string { return l.def.Background.Image }
func (l *Level) World() *ecs.World       { return l.world }
func (l *Level) Player() ecs.Entity      { return l.player }

// BackgroundColor parses the level's background colour, falling back to
// black.
func (l *Level) BackgroundColor() color.Color {
	c, err := prefabs.ParseColor(l.def.Background.Color)
	if err != nil {
		return color.Black
	}
	return c
}

func (l *Level) PlayerPosition() (cp.Vector, bool) {
	return system.Position(l.world, l.player)
}

// PlacePlayer teleports the player and stops it.
func (l *Level) PlacePlayer(p cp.Vector) bool {
	if !system.SetPosition(l.world, l.player, p) {
		return false
	}
	system.SetVelocity(l.world, l.player, cp.Vector{})
	return true
}

func (l *Level) input() *component.Input {
	in, ok := ecs.Get(l.world, l.player, component.InputComponent.Kind())
	if !ok {
		return nil
	}
	return in
}

// Move sets the walking direction; dir is -1, 0 or +1.
func (l *Level) Move(dir float64, run bool) {
	if in := l.input(); in != nil {
		in.MoveX = dir
		in.Run = run
	}
}

// Jump requests a jump on the next step.
func (l *Level) Jump() {
	if in := l.input(); in != nil {
		in.JumpPressed = true
	}
}

// Shoot requests a bullet on the next step.
func (l *Level) Shoot() {
	if in := l.input(); in != nil {
		in.ShootPressed = true
	}
}

// SpawnBall drops a bouncing ball at p with a random velocity. It reports
// false when the ball cap is reached.
func (l *Level) SpawnBall(p cp.Vector) bool {
	if l.stopped {
		return false
	}
	if max := l.game.MaxBalls; max > 0 && system.CountKind(l.world, component.KindBall) >= max {
		return false
	}
	speed := l.game.BallSpeed
	vel := cp.Vector{X: l.uniform(-speed, speed), Y: l.uniform(-speed, speed)}
	if _, err := l.builder.Spawn(l.world, system.SpawnRequest{Kind: component.KindBall, Pos: p, Dir: vel}); err != nil {
		l.logger.Warn("spawn ball failed", "err", err)
		return false
	}
	return true
}

// Space exposes the physics space for debug drawing.
func (l *Level) Space() *cp.Space {
	return l.physics.Space()
}
