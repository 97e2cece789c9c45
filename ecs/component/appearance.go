package component

import "image/color"

// Appearance names the sprite variant the presentation layer should draw.
// Color is the fill used when no sprite is available.
type Appearance struct {
	Name  string
	Color color.Color
	// Sprites maps appearance names to image files. SpriteHeight is the drawn
	// height in world units.
	Sprites      map[string]string
	SpriteHeight float64
}

// Sprite returns the image for the current appearance, falling back to the
// idle image.
func (a *Appearance) Sprite() (string, bool) {
	if p, ok := a.Sprites[a.Name]; ok && p != "" {
		return p, true
	}
	p, ok := a.Sprites["idle"]
	return p, ok && p != ""
}

var AppearanceComponent = NewComponent[Appearance]()
