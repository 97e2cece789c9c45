package entity

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
	"github.com/milk9111/citygame/ecs/system"
	"github.com/milk9111/citygame/prefabs"
)

var ErrNoPrefab = errors.New("entity: no prefab for kind")

// Builder creates entities by kind using the prefab table from game.yaml.
type Builder struct {
	prefabs prefabs.KindPrefabs
}

func NewBuilder(game *prefabs.GameSpec) *Builder {
	b := &Builder{prefabs: prefabs.KindPrefabs{}}
	if game != nil {
		for k, v := range game.Prefabs {
			b.prefabs[k] = v
		}
	}
	return b
}

func (b *Builder) PrefabFor(kind component.EntityKind) (string, error) {
	if b != nil {
		if path, ok := b.prefabs[kind.String()]; ok && path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrNoPrefab, kind)
}

// Build creates an entity of kind at (x, y).
func (b *Builder) Build(w *ecs.World, kind component.EntityKind, x, y float64) (ecs.Entity, error) {
	path, err := b.PrefabFor(kind)
	if err != nil {
		return 0, err
	}
	e, err := BuildEntity(w, path)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// Spawn implements system.SpawnFunc. Projectiles fly along req.Dir at their
// prefab speed; other kinds take req.Dir as their initial velocity.
func (b *Builder) Spawn(w *ecs.World, req system.SpawnRequest) (ecs.Entity, error) {
	e, err := b.Build(w, req.Kind, req.Pos.X, req.Pos.Y)
	if err != nil {
		return 0, err
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return e, nil
	}

	vel := req.Dir
	if proj, ok := ecs.Get(w, e, component.ProjectileComponent.Kind()); ok {
		dir, ok := common.Normalize(req.Dir)
		if !ok {
			dir = cp.Vector{X: 1}
		}
		vel = dir.Mult(proj.Speed)
	}
	pb.VelocityX, pb.VelocityY = vel.X, vel.Y
	if req.Group != 0 {
		pb.Group = req.Group
	}
	return e, nil
}

// BuildPlayer creates the player and its respawn point.
func (b *Builder) BuildPlayer(w *ecs.World, x, y float64, respawn component.RespawnPoint) (ecs.Entity, error) {
	e, err := b.Build(w, component.KindPlayer, x, y)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RespawnPointComponent.Kind(), &respawn); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// BuildBlock creates level geometry with an explicit size. Zero sizes keep
// the prefab's.
func (b *Builder) BuildBlock(w *ecs.World, kind component.EntityKind, x, y, width, height float64) (ecs.Entity, error) {
	e, err := b.Build(w, kind, x, y)
	if err != nil {
		return 0, err
	}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		if width > 0 {
			pb.Width = width
		}
		if height > 0 {
			pb.Height = height
		}
	}
	return e, nil
}

// BuildMovingPlatform creates a platform shuttling between start and end.
// A zero speed keeps the prefab's.
func (b *Builder) BuildMovingPlatform(w *ecs.World, start, end cp.Vector, speed float64) (ecs.Entity, error) {
	e, err := b.Build(w, component.KindMovingPlatform, start.X, start.Y)
	if err != nil {
		return 0, err
	}
	mp, ok := ecs.Get(w, e, component.MovingPlatformComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("entity: moving platform prefab lacks moving_platform component")
	}
	mp.StartX, mp.StartY = start.X, start.Y
	mp.EndX, mp.EndY = end.X, end.Y
	if speed > 0 {
		mp.Speed = speed
	}
	return e, nil
}

// BuildSpawner creates a bare entity carrying a spawner.
func BuildSpawner(w *ecs.World, sp component.Spawner) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SpawnerComponent.Kind(), &sp); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}
