package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Stage is the level/session state machine position.
type Stage int

const (
	StageLevel1 Stage = iota + 1
	StageLevel2
	StageLevel3
	StageCompleted
	StageOver
)

func (s Stage) String() string {
	switch s {
	case StageLevel1:
		return "level1"
	case StageLevel2:
		return "level2"
	case StageLevel3:
		return "level3"
	case StageCompleted:
		return "completed"
	case StageOver:
		return "session_over"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Terminal reports whether no further play is possible.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageOver
}

// StageForLevel maps a level ordinal to its stage.
func StageForLevel(level int) (Stage, bool) {
	if level < 1 || level > LevelCount {
		return 0, false
	}
	return Stage(level), true
}

// LevelCount is the number of playable levels.
const LevelCount = 3

var (
	ErrInvalidLevel = errors.New("session: invalid level")
	ErrTerminal     = errors.New("session: session has ended")
)

type Config struct {
	Lives      int
	TimeLimit  int
	PlayerName string
}

// Session holds the state that outlives a level: lives, the countdown,
// credits and the current stage. It is owned by a single goroutine.
type Session struct {
	lives    int
	timeLeft int
	credits  int
	level    int
	stage    Stage
	paused   bool
	name     string
	logger   *log.Logger
}

func New(cfg Config) *Session {
	if cfg.Lives <= 0 {
		cfg.Lives = 3
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = 120
	}
	return &Session{
		lives:    cfg.Lives,
		timeLeft: cfg.TimeLimit,
		level:    1,
		stage:    StageLevel1,
		name:     cfg.PlayerName,
		logger:   log.WithPrefix("session"),
	}
}

func (s *Session) Lives() int         { return s.lives }
func (s *Session) TimeLeft() int      { return s.timeLeft }
func (s *Session) Credits() int       { return s.credits }
func (s *Session) Level() int         { return s.level }
func (s *Session) Stage() Stage       { return s.stage }
func (s *Session) Paused() bool       { return s.paused }
func (s *Session) PlayerName() string { return s.name }
func (s *Session) Terminal() bool     { return s.stage.Terminal() }

// Active reports whether the simulation should advance.
func (s *Session) Active() bool {
	return !s.paused && !s.stage.Terminal()
}

// LoseLife takes one life. Reaching zero ends the session.
func (s *Session) LoseLife() {
	if s.Terminal() || s.lives <= 0 {
		return
	}
	s.lives--
	s.logger.Info("life lost", "lives", s.lives)
	if s.lives == 0 {
		s.end("out of lives")
	}
}

func (s *Session) AddCredits(n int) {
	if s.Terminal() {
		return
	}
	s.credits += n
}

// TickSecond counts down one second of real time. Paused or finished
// sessions ignore it. It reports whether the clock moved.
func (s *Session) TickSecond() bool {
	if !s.Active() || s.timeLeft <= 0 {
		return false
	}
	s.timeLeft--
	if s.timeLeft == 0 {
		s.end("time up")
	}
	return true
}

func (s *Session) end(reason string) {
	s.stage = StageOver
	s.paused = false
	s.logger.Info("session over", "reason", reason, "level", s.level)
}

// Advance moves to the next level, resetting credits, or to Completed after
// the last level. It returns the new stage.
func (s *Session) Advance() Stage {
	if s.Terminal() {
		return s.stage
	}
	s.credits = 0
	if s.level >= LevelCount {
		s.stage = StageCompleted
		s.logger.Info("session completed", "lives", s.lives, "time_left", s.timeLeft)
		return s.stage
	}
	s.level++
	s.stage = Stage(s.level)
	s.logger.Info("advanced", "level", s.level)
	return s.stage
}

func (s *Session) Pause() {
	if !s.Terminal() {
		s.paused = true
	}
}

func (s *Session) Resume() {
	s.paused = false
}

// TogglePause flips the pause flag and returns the new value.
func (s *Session) TogglePause() bool {
	if s.paused {
		s.Resume()
	} else {
		s.Pause()
	}
	return s.paused
}

// State is a copy of the persisted session fields.
type State struct {
	Level      int
	Credits    int
	Lives      int
	TimeLeft   int
	PlayerName string
}

func (s *Session) Snapshot() State {
	return State{
		Level:      s.level,
		Credits:    s.credits,
		Lives:      s.lives,
		TimeLeft:   s.timeLeft,
		PlayerName: s.name,
	}
}

// ValidateState reports whether st can be restored.
func ValidateState(st State) error {
	if _, ok := StageForLevel(st.Level); !ok {
		return fmt.Errorf("%w %d", ErrInvalidLevel, st.Level)
	}
	if st.Lives <= 0 || st.TimeLeft <= 0 || st.Credits < 0 {
		return fmt.Errorf("session: cannot restore finished state %+v", st)
	}
	return nil
}

// Restore replaces the session state. The session is left untouched when
// st is invalid.
func (s *Session) Restore(st State) error {
	if err := ValidateState(st); err != nil {
		return err
	}
	s.level = st.Level
	s.stage = Stage(st.Level)
	s.credits = st.Credits
	s.lives = st.Lives
	s.timeLeft = st.TimeLeft
	s.name = st.PlayerName
	s.paused = false
	return nil
}
