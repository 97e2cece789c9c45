package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/milk9111/citygame/ecs/component"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrUnknownLevel = errors.New("levels: unknown level")

// Definition describes how a level is populated and when it is complete.
type Definition struct {
	Ordinal    int        `json:"ordinal"`
	Name       string     `json:"name"`
	Objective  string     `json:"objective"`
	Completion string     `json:"completion"`
	Background Background `json:"background"`
	Music      string     `json:"music,omitempty"`

	Player  Point  `json:"player"`
	Respawn *Point `json:"respawn,omitempty"`

	Blocks          []Block          `json:"blocks,omitempty"`
	MovingPlatforms []MovingPlatform `json:"moving_platforms,omitempty"`
	Entities        []Entity         `json:"entities,omitempty"`
	Spawners        []Spawner        `json:"spawners,omitempty"`
	RandomPlatforms *RandomPlatforms `json:"random_platforms,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Background struct {
	Color string `json:"color"`
	Image string `json:"image,omitempty"`
}

// Block is a piece of static geometry. A zero size keeps the prefab's.
type Block struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type MovingPlatform struct {
	Start Point   `json:"start"`
	End   Point   `json:"end"`
	Speed float64 `json:"speed,omitempty"`
}

type Entity struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type Spawner struct {
	Kind            string  `json:"kind"`
	IntervalSeconds float64 `json:"interval_seconds"`
	MinX            float64 `json:"min_x"`
	MaxX            float64 `json:"max_x"`
	MinY            float64 `json:"min_y"`
	MaxY            float64 `json:"max_y"`
	MaxAlive        int     `json:"max_alive,omitempty"`
}

// RandomPlatforms scatters Count platforms inside the area, keeping their
// centres at least MinSpacing apart. Each platform gets Attempts tries.
type RandomPlatforms struct {
	Count      int     `json:"count"`
	MinX       float64 `json:"min_x"`
	MaxX       float64 `json:"max_x"`
	MinY       float64 `json:"min_y"`
	MaxY       float64 `json:"max_y"`
	MinWidth   float64 `json:"min_width"`
	MaxWidth   float64 `json:"max_width"`
	MinSpacing float64 `json:"min_spacing"`
	Attempts   int     `json:"attempts"`
}

// Count is the number of levels in a session.
func Count() int {
	return len(fileNames())
}

func fileNames() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "level") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Load returns the definition for a level ordinal, starting at 1.
func Load(ordinal int) (*Definition, error) {
	name := fmt.Sprintf("level%d.json", ordinal)
	def, err := LoadLevelFromFS(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w %d", ErrUnknownLevel, ordinal)
	}
	if err != nil {
		return nil, err
	}
	if def.Ordinal != ordinal {
		return nil, fmt.Errorf("levels: %s declares ordinal %d", name, def.Ordinal)
	}
	return def, nil
}

// readLevelFile prefers a copy under ./levels on disk so edits apply to the
// next level start without a rebuild.
func readLevelFile(name string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join("levels", name)); err == nil {
		return data, nil
	}
	return fs.ReadFile(LevelsFS, name)
}

func LoadLevelFromFS(name string) (*Definition, error) {
	data, err := readLevelFile(name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}
	return &def, nil
}

// Validate checks that every kind named by the definition exists and that
// the completion rule is present.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Completion) == "" {
		return fmt.Errorf("missing completion rule")
	}
	check := func(what, kind string) error {
		if _, ok := component.ParseKind(kind); !ok {
			return fmt.Errorf("%s: unknown kind %q", what, kind)
		}
		return nil
	}
	for i, b := range d.Blocks {
		if err := check(fmt.Sprintf("block %d", i), b.Kind); err != nil {
			return err
		}
		kind, _ := component.ParseKind(b.Kind)
		if !kind.IsStatic() {
			return fmt.Errorf("block %d: %q is not static geometry", i, b.Kind)
		}
	}
	for i, e := range d.Entities {
		if err := check(fmt.Sprintf("entity %d", i), e.Kind); err != nil {
			return err
		}
	}
	for i, s := range d.Spawners {
		if err := check(fmt.Sprintf("spawner %d", i), s.Kind); err != nil {
			return err
		}
		if s.MinX > s.MaxX || s.MinY > s.MaxY {
			return fmt.Errorf("spawner %d: empty area", i)
		}
	}
	if rp := d.RandomPlatforms; rp != nil {
		if rp.MinX > rp.MaxX || rp.MinY > rp.MaxY || rp.MinWidth > rp.MaxWidth {
			return fmt.Errorf("random platforms: empty range")
		}
	}
	return nil
}

// RespawnPoint is where the player returns after falling, defaulting to
// fallback when the level does not set one.
func (d *Definition) RespawnPoint(fallback Point) Point {
	if d.Respawn != nil {
		return *d.Respawn
	}
	return fallback
}
