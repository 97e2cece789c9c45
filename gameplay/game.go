package gameplay

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs/system"
	"github.com/milk9111/citygame/level"
	"github.com/milk9111/citygame/levels"
	"github.com/milk9111/citygame/prefabs"
	"github.com/milk9111/citygame/savegame"
	"github.com/milk9111/citygame/session"
)

var ErrNoStore = errors.New("gameplay: no save store")

type Config struct {
	// Spec overrides game.yaml.
	Spec       *prefabs.GameSpec
	PlayerName string
	// StartLevel defaults to 1.
	StartLevel int
	// Seed drives level layout and enemy randomness; zero picks one.
	Seed  int64
	Cues  system.CuePlayer
	Store *savegame.Store
	Slot  string
}

// Game owns the session and the level being played. All methods must be
// called from the simulation goroutine.
type Game struct {
	spec    *prefabs.GameSpec
	session *session.Session
	level   *level.Level
	rng     *rand.Rand
	cues    system.CuePlayer
	store   *savegame.Store
	slot    string
	logger  *log.Logger

	loadDef func(int) (*levels.Definition, error)
	// retryFrame holds back another transition attempt after a failed one.
	retryFrame uint64

	onLevel func(*level.Level)
	onError func(error)
}

func New(cfg Config) (*Game, error) {
	spec := cfg.Spec
	if spec == nil {
		var err error
		if spec, err = prefabs.LoadGameSpec(); err != nil {
			return nil, err
		}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	slot := cfg.Slot
	if slot == "" {
		slot = "slot1"
	}

	g := &Game{
		spec:    spec,
		session: session.New(session.Config{Lives: spec.Lives, TimeLimit: spec.TimeLimit, PlayerName: cfg.PlayerName}),
		rng:     rand.New(rand.NewSource(seed)),
		cues:    cfg.Cues,
		store:   cfg.Store,
		slot:    slot,
		logger:  log.WithPrefix("game"),
		loadDef: levels.Load,
	}

	start := cfg.StartLevel
	if start == 0 {
		start = 1
	}
	if start != 1 {
		st := g.session.Snapshot()
		st.Level = start
		if err := g.session.Restore(st); err != nil {
			return nil, err
		}
	}

	lvl, err := g.buildLevel(start)
	if err != nil {
		return nil, err
	}
	g.level = lvl
	g.logger.Info("game started", "level", start, "seed", seed, "player", cfg.PlayerName)
	return g, nil
}

func (g *Game) buildLevel(ordinal int) (*level.Level, error) {
	def, err := g.loadDef(ordinal)
	if err != nil {
		return nil, err
	}
	return level.New(def, level.Config{
		Game:    g.spec,
		Session: g.session,
		Cues:    g.cues,
		Rand:    g.rng,
	})
}

// OnLevelChange registers fn to be called whenever a new level starts.
func (g *Game) OnLevelChange(fn func(*level.Level)) {
	g.onLevel = fn
}

// OnError registers fn to be told about failures that leave the current
// level running.
func (g *Game) OnError(fn func(error)) {
	g.onError = fn
}

func (g *Game) setLevel(l *level.Level) {
	if g.level != nil && g.level != l {
		g.level.Stop()
	}
	g.level = l
	g.retryFrame = 0
	if l != nil && g.onLevel != nil {
		g.onLevel(l)
	}
}

// Update steps the level once and handles level completion. Paused or
// finished sessions do nothing.
func (g *Game) Update() error {
	if !g.session.Active() || g.level == nil {
		return nil
	}
	g.level.Update()
	if g.session.Terminal() {
		return nil
	}
	if g.level.Complete(g.session.Credits()) {
		g.advance()
	}
	return nil
}

// advance moves to the next level. The next level is built before the
// current one is stopped; if that fails the current level keeps running and
// the transition is retried a second later.
func (g *Game) advance() {
	finished := g.level.Ordinal()
	if finished >= session.LevelCount {
		g.level.Stop()
		stage := g.session.Advance()
		g.logger.Info("level complete", "level", finished, "next", stage)
		return
	}

	frame := g.level.World().Frame()
	if frame < g.retryFrame {
		return
	}
	next, err := g.buildLevel(finished + 1)
	if err != nil {
		g.retryFrame = frame + common.StepRate
		err = fmt.Errorf("gameplay: start level %d: %w", finished+1, err)
		g.logger.Error("level transition failed", "level", finished, "err", err)
		if g.onError != nil {
			g.onError(err)
		}
		return
	}
	stage := g.session.Advance()
	g.logger.Info("level complete", "level", finished, "next", stage)
	g.setLevel(next)
}

// Tick applies n elapsed seconds of real time to the countdown.
func (g *Game) Tick(n int) {
	for i := 0; i < n; i++ {
		g.session.TickSecond()
	}
}

func (g *Game) Session() *session.Session { return g.session }
func (g *Game) Level() *level.Level       { return g.level }
func (g *Game) Lives() int                { return g.session.Lives() }
func (g *Game) TimeLeft() int             { return g.session.TimeLeft() }
func (g *Game) TimeLimit() int            { return g.spec.TimeLimit }
func (g *Game) Credits() int              { return g.session.Credits() }
func (g *Game) Stage() session.Stage      { return g.session.Stage() }
func (g *Game) Paused() bool              { return g.session.Paused() }

func (g *Game) Objective() string {
	if g.level == nil {
		return ""
	}
	return g.level.Objective()
}

func (g *Game) BackgroundColor() color.Color {
	if g.level == nil {
		return color.Black
	}
	return g.level.BackgroundColor()
}

func (g *Game) playing() bool {
	return g.session.Active() && g.level != nil && !g.level.Stopped()
}

// Move walks the player; dir is -1, 0 or +1.
func (g *Game) Move(dir float64, run bool) {
	if g.playing() {
		g.level.Move(dir, run)
	}
}

func (g *Game) Jump() {
	if g.playing() {
		g.level.Jump()
	}
}

func (g *Game) Shoot() {
	if g.playing() {
		g.level.Shoot()
	}
}

// SpawnBall drops a ball at the world point p.
func (g *Game) SpawnBall(p cp.Vector) bool {
	if !g.playing() {
		return false
	}
	return g.level.SpawnBall(p)
}

func (g *Game) Pause()            { g.session.Pause() }
func (g *Game) Resume()           { g.session.Resume() }
func (g *Game) TogglePause() bool { return g.session.TogglePause() }
