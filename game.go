package main

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/citygame/assets"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/gameplay"
	"github.com/milk9111/citygame/level"
	"github.com/milk9111/citygame/levels"
	"github.com/milk9111/citygame/prefabs"
	"github.com/milk9111/citygame/session"
)

var errQuit = errors.New("quit")

const statusFrames = 2 * common.StepRate

// Shell adapts gameplay.Game to ebiten: it reads devices, feeds the real
// time countdown, and draws the world, HUD and pause menu.
type Shell struct {
	game      *gameplay.Game
	loader    *assets.Loader
	sound     *assets.Audio
	countdown *session.Countdown
	pauseUI   *ebitenui.UI
	hud       *HUD
	images    *imageCache
	watcher   *prefabs.Watcher
	debug     bool
	quit      bool

	status      string
	statusTicks int
}

func NewShell(g *gameplay.Game, loader *assets.Loader, sound *assets.Audio, debug bool) *Shell {
	s := &Shell{
		game:      g,
		loader:    loader,
		sound:     sound,
		countdown: session.NewCountdown(time.Second),
		hud:       NewHUD(),
		images:    newImageCache(loader),
		debug:     debug,
	}
	s.pauseUI = NewPauseUI(s)
	g.OnLevelChange(s.levelStarted)
	g.OnError(func(err error) { s.showStatus(err.Error()) })
	s.levelStarted(g.Level())
	return s
}

// Start runs the real time countdown until ctx ends or Close is called.
func (s *Shell) Start(ctx context.Context) {
	s.countdown.Start(ctx)
}

func (s *Shell) Close() {
	s.countdown.Stop()
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.sound.StopMusic()
}

func (s *Shell) levelStarted(l *level.Level) {
	if l == nil {
		return
	}
	s.sound.PlayMusic(l.Music())
	s.showStatus(l.Name())
}

func (s *Shell) showStatus(msg string) {
	s.status = msg
	s.statusTicks = statusFrames
}

func (s *Shell) Update() error {
	if s.quit {
		return errQuit
	}
	s.pollWatcher()
	if s.statusTicks > 0 {
		s.statusTicks--
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && !s.game.Session().Terminal() {
		s.togglePause()
	}

	s.game.Tick(s.countdown.Drain())

	if s.game.Paused() {
		s.pauseUI.Update()
		return nil
	}
	if s.game.Session().Terminal() {
		s.countdown.Pause()
		return nil
	}
	readInput(s.game)
	return s.game.Update()
}

func (s *Shell) togglePause() {
	if s.game.TogglePause() {
		s.countdown.Pause()
		return
	}
	s.countdown.Resume()
}

func (s *Shell) resume() {
	if s.game.Paused() {
		s.togglePause()
	}
}

func (s *Shell) save() {
	if err := s.game.Save(); err != nil {
		s.showStatus("Save failed: " + err.Error())
		return
	}
	s.showStatus("Game saved")
}

func (s *Shell) load() {
	if err := s.game.Load(); err != nil {
		s.showStatus("Load failed: " + err.Error())
		return
	}
	s.countdown.Resume()
	s.showStatus("Game loaded")
}

func (s *Shell) requestQuit() {
	s.quit = true
}

// WatchPrefabs reloads prefab and level files from dirs as they change.
func (s *Shell) WatchPrefabs(dirs ...string) error {
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}

func (s *Shell) pollWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			s.reloaded(name)
		case err, ok := <-s.watcher.Errors:
			if ok {
				log.Warn("watcher error", "err", err)
			}
		default:
			return
		}
	}
}

// reloaded validates a changed file. Prefabs are read on every spawn and
// levels on every level start, so a valid file needs no further action.
func (s *Shell) reloaded(name string) {
	var err error
	switch {
	case name == "game.yaml":
		_, err = prefabs.LoadGameSpec()
	case prefabs.IsPrefabFile(name):
		_, err = prefabs.LoadEntityBuildSpec(name)
	default:
		_, err = levels.LoadLevelFromFS(name)
	}
	if err != nil {
		log.Error("reload rejected", "file", name, "err", err)
		s.showStatus("Reload failed: " + name)
		return
	}
	log.Info("reloaded", "file", name)
	s.showStatus("Reloaded " + name)
}

func (s *Shell) Draw(screen *ebiten.Image) {
	s.drawBackground(screen)
	if l := s.game.Level(); l != nil && !l.Stopped() {
		drawWorld(screen, l.World(), s.images)
		if s.debug {
			drawPhysicsDebug(screen, l.Space())
			drawPlayerDebug(screen, l)
		}
	}
	s.hud.Draw(screen, s.game)
	if s.statusTicks > 0 {
		s.hud.DrawStatus(screen, s.status)
	}
	if s.game.Paused() {
		s.pauseUI.Draw(screen)
	}
}

func (s *Shell) drawBackground(screen *ebiten.Image) {
	screen.Fill(s.game.BackgroundColor())
	l := s.game.Level()
	if l == nil {
		return
	}
	img := s.images.get(l.BackgroundImage())
	if img == nil {
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(common.ScreenWidth)/float64(b.Dx()), float64(common.ScreenHeight)/float64(b.Dy()))
	screen.DrawImage(img, op)
}

func (s *Shell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.ScreenWidth, common.ScreenHeight
}
