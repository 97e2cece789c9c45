package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/gameplay"
)

const stickDeadZone = 0.3

// readInput polls keyboard, mouse and the first gamepad and forwards the
// result as game commands.
func readInput(g *gameplay.Game) {
	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}
	run := ebiten.IsKeyPressed(ebiten.KeyShift)
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	shoot := inpututil.IsKeyJustPressed(ebiten.KeyZ)

	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		id := ids[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -stickDeadZone {
			moveX = -1
		} else if leftX > stickDeadZone {
			moveX = 1
		}
		run = run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		shoot = shoot || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}

	g.Move(moveX, run)
	if jump {
		g.Jump()
	}
	if shoot {
		g.Shoot()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		x, y := common.ScreenToWorld(float64(mx), float64(my))
		g.SpawnBall(cp.Vector{X: x, Y: y})
	}
}
