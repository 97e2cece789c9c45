package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
	"github.com/milk9111/citygame/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"tag":             addTag,
	"transform":       addTransform,
	"physics_body":    addPhysicsBody,
	"appearance":      addAppearance,
	"health":          addHealth,
	"player":          addPlayer,
	"input":           addInput,
	"abilities":       addAbilities,
	"patrol":          addPatrol,
	"chaser":          addChaser,
	"boss":            addBoss,
	"projectile":      addProjectile,
	"collectible":     addCollectible,
	"moving_platform": addMovingPlatform,
	"lifetime":        addLifetime,
}

var componentBuildOrder = []string{
	"tag",
	"transform",
	"physics_body",
	"appearance",
	"health",
	"player",
	"input",
	"abilities",
	"patrol",
	"chaser",
	"boss",
	"projectile",
	"collectible",
	"moving_platform",
	"lifetime",
}

// BuildEntity creates an entity from the components listed in a prefab file.
// The entity is destroyed again if any component fails to build.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	build := func(name string, raw any) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		return nil
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := build(name, raw); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
		delete(remaining, name)
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := build(name, remaining[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}

// SetEntityTransform places an entity, creating its Transform if needed.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addTag(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TagComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tag spec: %w", err)
	}
	kind, ok := component.ParseKind(spec.Kind)
	if !ok {
		return fmt.Errorf("unknown entity kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Kind: kind})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Rotation: spec.Rotation,
	})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	var bodyType component.BodyType
	switch spec.Type {
	case "", "dynamic":
		bodyType = component.BodyDynamic
	case "static":
		bodyType = component.BodyStatic
	case "kinematic":
		bodyType = component.BodyKinematic
	default:
		return fmt.Errorf("unknown body type %q", spec.Type)
	}
	if spec.Radius <= 0 && (spec.Width <= 0 || spec.Height <= 0) {
		return fmt.Errorf("physics body needs a radius or a width and height")
	}
	if spec.Density <= 0 {
		spec.Density = 1
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Type:          bodyType,
		Width:         spec.Width,
		Height:        spec.Height,
		Radius:        spec.Radius,
		Density:       spec.Density,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		FixedRotation: spec.FixedRotation,
		NoGravity:     spec.NoGravity,
		Group:         spec.Group,
	})
}

func addAppearance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AppearanceComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode appearance spec: %w", err)
	}
	if len(spec.Sprites) > 0 && spec.SpriteHeight <= 0 {
		return fmt.Errorf("sprites need a positive sprite_height")
	}
	a := &component.Appearance{Name: spec.Name, Sprites: spec.Sprites, SpriteHeight: spec.SpriteHeight}
	if spec.Color != nil {
		a.Color = spec.Color.Color
	}
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), a)
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	if spec.Max <= 0 {
		spec.Max = 1
	}
	return ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Max: spec.Max, Current: spec.Max})
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		WalkSpeed:        spec.WalkSpeed,
		RunSpeed:         spec.RunSpeed,
		JumpImpulse:      spec.JumpImpulse,
		RunJumpImpulse:   spec.RunJumpImpulse,
		DoubleJumpFactor: spec.DoubleJumpFactor,
		ShootOffset:      spec.ShootOffset,
		Facing:           1,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addAbilities(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AbilitiesComponent.Kind(), &component.Abilities{})
}

func addPatrol(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PatrolComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode patrol spec: %w", err)
	}
	return ecs.Add(w, e, component.PatrolComponent.Kind(), &component.Patrol{
		Speed:        spec.Speed,
		Bound:        spec.Bound,
		Direction:    1,
		JumpChance:   spec.JumpChance,
		JumpVelocity: spec.JumpVelocity,
	})
}

func addChaser(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ChaserComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode chaser spec: %w", err)
	}
	return ecs.Add(w, e, component.ChaserComponent.Kind(), &component.Chaser{
		Speed:              spec.Speed,
		SeparationRadius:   spec.SeparationRadius,
		SeparationStrength: spec.SeparationStrength,
	})
}

func addBoss(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BossComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode boss spec: %w", err)
	}
	return ecs.Add(w, e, component.BossComponent.Kind(), &component.Boss{
		Speed:        spec.Speed,
		FireInterval: spec.FireInterval,
	})
}

func addProjectile(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ProjectileComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode projectile spec: %w", err)
	}
	return ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		Speed:    spec.Speed,
		Lifespan: spec.Lifespan,
	})
}

func addCollectible(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollectibleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collectible spec: %w", err)
	}
	return ecs.Add(w, e, component.CollectibleComponent.Kind(), &component.Collectible{
		Credits:          spec.Credits,
		GrantDoubleJump:  spec.DoubleJumpSeconds > 0,
		DoubleJumpFrames: common.FramesFor(spec.DoubleJumpSeconds),
	})
}

func addMovingPlatform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MovingPlatformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode moving platform spec: %w", err)
	}
	if spec.Epsilon <= 0 {
		spec.Epsilon = 0.1
	}
	return ecs.Add(w, e, component.MovingPlatformComponent.Kind(), &component.MovingPlatform{
		Speed:   spec.Speed,
		Epsilon: spec.Epsilon,
		ToEnd:   true,
	})
}

func addLifetime(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.LifetimeComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode lifetime spec: %w", err)
	}
	if spec.Seconds <= 0 {
		return fmt.Errorf("lifetime must be positive, got %v", spec.Seconds)
	}
	return ecs.Add(w, e, component.LifetimeComponent.Kind(), &component.Lifetime{Frames: common.FramesFor(spec.Seconds)})
}
