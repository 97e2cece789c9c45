package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/gameplay"
	"github.com/milk9111/citygame/session"
	"golang.org/x/image/font/basicfont"
)

var (
	hudText     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	heartColor  = color.NRGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	barBack     = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	barFill     = color.NRGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	barLow      = color.NRGBA{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff}
	overlayBack = color.NRGBA{A: 0xb0}
)

const (
	timeBarX      = 20
	timeBarY      = 60
	timeBarWidth  = 200
	timeBarHeight = 20
)

// HUD draws lives, the time bar, credits, the objective and end screens.
type HUD struct {
	face ebtext.Face
}

func NewHUD() *HUD {
	return &HUD{face: ebtext.NewGoXFace(basicfont.Face7x13)}
}

func (h *HUD) text(screen *ebiten.Image, s string, x, y float64, scale float64) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(hudText)
	ebtext.Draw(screen, s, h.face, op)
}

func (h *HUD) Draw(screen *ebiten.Image, g *gameplay.Game) {
	for i := 0; i < g.Lives(); i++ {
		vector.FillCircle(screen, float32(30+i*28), 30, 10, heartColor, true)
	}

	vector.FillRect(screen, timeBarX, timeBarY, timeBarWidth, timeBarHeight, barBack, false)
	if limit := g.TimeLimit(); limit > 0 {
		frac := float64(g.TimeLeft()) / float64(limit)
		fill := barFill
		if frac < 0.25 {
			fill = barLow
		}
		vector.FillRect(screen, timeBarX, timeBarY, float32(timeBarWidth*frac), timeBarHeight, fill, false)
	}
	h.text(screen, fmt.Sprintf("%ds", g.TimeLeft()), timeBarX+timeBarWidth+10, timeBarY+4, 1)

	h.text(screen, fmt.Sprintf("Credits: %d", g.Credits()), common.ScreenWidth-140, 20, 1)
	if l := g.Level(); l != nil {
		h.text(screen, fmt.Sprintf("Level %d: %s", l.Ordinal(), l.Name()), common.ScreenWidth-220, 40, 1)
	}
	h.text(screen, g.Objective(), timeBarX, timeBarY+timeBarHeight+10, 1)

	switch g.Stage() {
	case session.StageOver:
		h.banner(screen, "GAME OVER")
	case session.StageCompleted:
		h.banner(screen, "COMPLETE")
	}
}

func (h *HUD) banner(screen *ebiten.Image, msg string) {
	vector.FillRect(screen, 0, common.ScreenHeight/2-40, common.ScreenWidth, 80, overlayBack, false)
	const scale = 4
	width := float64(len(msg) * 7 * scale)
	h.text(screen, msg, (common.ScreenWidth-width)/2, common.ScreenHeight/2-26, scale)
}

// DrawStatus shows a transient message at the bottom of the screen.
func (h *HUD) DrawStatus(screen *ebiten.Image, msg string) {
	if msg == "" {
		return
	}
	h.text(screen, msg, 20, common.ScreenHeight-30, 1)
}
