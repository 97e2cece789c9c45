package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec holds session and world tuning shared by every level.
type GameSpec struct {
	Lives     int         `yaml:"lives"`
	TimeLimit int         `yaml:"time_limit"`
	Respawn   PointSpec   `yaml:"respawn"`
	FallLimit float64     `yaml:"fall_limit"`
	Bounds    BoundsSpec  `yaml:"bounds"`
	MaxBalls  int         `yaml:"max_balls"`
	BallSpeed float64     `yaml:"ball_speed"`
	Prefabs   KindPrefabs `yaml:"prefabs"`
	// Cues maps audio cue names to sound files.
	Cues map[string]string `yaml:"cues"`
}

// KindPrefabs maps entity kind names to prefab files.
type KindPrefabs map[string]string

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BoundsSpec struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa"; the leading # is optional.
func ParseColor(raw string) (color.NRGBA, error) {
	s := strings.TrimPrefix(raw, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", raw)
	}

	channels := make([]uint8, 0, 4)
	for i := 0; i < len(s); i += 2 {
		v, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", raw, err)
		}
		channels = append(channels, uint8(v))
	}
	if len(channels) == 3 {
		channels = append(channels, 255)
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}
