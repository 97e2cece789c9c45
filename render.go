package main

import (
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/citygame/assets"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
	"github.com/milk9111/citygame/ecs/system"
)

var (
	hitTint    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	facingMark = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// drawWorld draws every body with its appearance sprite, or as a flat
// coloured box or disc when the sprite is missing.
func drawWorld(screen *ebiten.Image, w *ecs.World, images *imageCache) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.AppearanceComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, a *component.Appearance) {
		pos, ok := system.Position(w, e)
		if !ok {
			return
		}
		if path, ok := a.Sprite(); ok {
			if img := images.get(path); img != nil {
				drawSprite(screen, img, pos.X, pos.Y, a.SpriteHeight)
				return
			}
		}
		clr := a.Color
		if clr == nil {
			clr = color.White
		}
		if a.Name == system.AppearanceEnemyHit {
			clr = hitTint
		}

		sx, sy := common.WorldToScreen(pos.X, pos.Y)
		if pb.Radius > 0 {
			vector.FillCircle(screen, float32(sx), float32(sy), float32(pb.Radius*common.PixelsPerUnit), clr, true)
			return
		}
		wpx := pb.Width * common.PixelsPerUnit
		hpx := pb.Height * common.PixelsPerUnit
		vector.FillRect(screen, float32(sx-wpx/2), float32(sy-hpx/2), float32(wpx), float32(hpx), clr, false)

		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
			drawFacing(screen, sx, sy, wpx, p.Facing)
		}
	})
}

// drawSprite centres img on the world point, scaled to height world units.
func drawSprite(screen, img *ebiten.Image, x, y, height float64) {
	b := img.Bounds()
	if b.Dy() == 0 {
		return
	}
	scale := height * common.PixelsPerUnit / float64(b.Dy())
	sx, sy := common.WorldToScreen(x, y)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(sx, sy)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func drawFacing(screen *ebiten.Image, sx, sy, width, facing float64) {
	if facing == 0 {
		facing = 1
	}
	x := sx + facing*width/4
	vector.FillRect(screen, float32(x-2), float32(sy-6), 4, 4, facingMark, false)
}

// imageCache loads images once; failures are logged once and remembered.
type imageCache struct {
	loader *assets.Loader
	images map[string]*ebiten.Image
}

func newImageCache(loader *assets.Loader) *imageCache {
	return &imageCache{loader: loader, images: map[string]*ebiten.Image{}}
}

func (c *imageCache) get(path string) *ebiten.Image {
	if c == nil || path == "" || c.loader == nil {
		return nil
	}
	if img, ok := c.images[path]; ok {
		return img
	}
	img, err := c.loader.LoadImage(path)
	if err != nil {
		log.Warn("image unavailable", "file", path, "err", err)
		img = nil
	}
	c.images[path] = img
	return img
}
