package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TagComponentSpec struct {
	Kind string `yaml:"kind"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsBodyComponentSpec struct {
	Type          string  `yaml:"type"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	Density       float64 `yaml:"density"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	FixedRotation bool    `yaml:"fixed_rotation"`
	NoGravity     bool    `yaml:"no_gravity"`
	Group         uint    `yaml:"group"`
}

type AppearanceComponentSpec struct {
	Name         string            `yaml:"name"`
	Color        *YAMLColor        `yaml:"color"`
	Sprites      map[string]string `yaml:"sprites"`
	SpriteHeight float64           `yaml:"sprite_height"`
}

type HealthComponentSpec struct {
	Max int `yaml:"max"`
}

type PlayerComponentSpec struct {
	WalkSpeed        float64 `yaml:"walk_speed"`
	RunSpeed         float64 `yaml:"run_speed"`
	JumpImpulse      float64 `yaml:"jump_impulse"`
	RunJumpImpulse   float64 `yaml:"run_jump_impulse"`
	DoubleJumpFactor float64 `yaml:"double_jump_factor"`
	ShootOffset      float64 `yaml:"shoot_offset"`
}

type PatrolComponentSpec struct {
	Speed        float64 `yaml:"speed"`
	Bound        float64 `yaml:"bound"`
	JumpChance   float64 `yaml:"jump_chance"`
	JumpVelocity float64 `yaml:"jump_velocity"`
}

type ChaserComponentSpec struct {
	Speed              float64 `yaml:"speed"`
	SeparationRadius   float64 `yaml:"separation_radius"`
	SeparationStrength float64 `yaml:"separation_strength"`
}

type BossComponentSpec struct {
	Speed        float64 `yaml:"speed"`
	FireInterval int     `yaml:"fire_interval"`
}

type ProjectileComponentSpec struct {
	Speed    float64 `yaml:"speed"`
	Lifespan float64 `yaml:"lifespan"`
}

type CollectibleComponentSpec struct {
	Credits           int     `yaml:"credits"`
	DoubleJumpSeconds float64 `yaml:"double_jump_seconds"`
}

type MovingPlatformComponentSpec struct {
	Speed   float64 `yaml:"speed"`
	Epsilon float64 `yaml:"epsilon"`
}

type LifetimeComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}
