package assets

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Loader reads images and sounds from a file system rooted at the game
// directory, usually os.DirFS(".").
type Loader struct {
	fsys fs.FS
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadFile loads an asset by path.
func (l *Loader) LoadFile(p string) ([]byte, error) {
	return fs.ReadFile(l.fsys, cleanAssetPath(p))
}

// DecodeImage loads and decodes a PNG or JPEG asset.
func (l *Loader) DecodeImage(p string) (image.Image, error) {
	b, err := l.LoadFile(p)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadImage loads an asset as an *ebiten.Image.
func (l *Loader) LoadImage(p string) (*ebiten.Image, error) {
	img, err := l.DecodeImage(p)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if filepath.IsAbs(p) {
		if idx := strings.LastIndex(s, "/data/"); idx >= 0 {
			return s[idx+1:]
		}
		return path.Base(s)
	}
	return path.Clean(strings.TrimPrefix(s, "./"))
}
