package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

// Position returns the live position of e. Entities whose body has not been
// created yet report their Transform. ok is false for destroyed entities.
func Position(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil && pb.Type != component.BodyStatic {
		return pb.Body.Position(), true
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return cp.Vector{X: tr.X, Y: tr.Y}, true
}

// Velocity returns the linear velocity of e, or the pending initial velocity
// when no body exists yet.
func Velocity(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	if pb.Body != nil && pb.Type != component.BodyStatic {
		return pb.Body.Velocity(), true
	}
	return cp.Vector{X: pb.VelocityX, Y: pb.VelocityY}, true
}

// SetPosition teleports e. Static geometry only has its Transform updated.
func SetPosition(w *ecs.World, e ecs.Entity, p cp.Vector) bool {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	tr.X, tr.Y = p.X, p.Y
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil && pb.Type != component.BodyStatic {
		pb.Body.SetPosition(p)
	}
	return true
}

func SetVelocity(w *ecs.World, e ecs.Entity, v cp.Vector) bool {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Type == component.BodyStatic {
		return false
	}
	pb.VelocityX, pb.VelocityY = v.X, v.Y
	if pb.Body != nil {
		pb.Body.SetVelocityVector(v)
	}
	return true
}

// ApplyImpulse applies j at the centre of e's body. Entities without a
// dynamic body are left alone.
func ApplyImpulse(w *ecs.World, e ecs.Entity, j cp.Vector) bool {
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil || pb.Type != component.BodyDynamic {
		return false
	}
	pb.Body.ApplyImpulseAtWorldPoint(j, pb.Body.Position())
	return true
}

// FirstOfKind returns a live entity tagged with kind.
func FirstOfKind(w *ecs.World, kind component.EntityKind) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.TagComponent.Kind(), func(e ecs.Entity, tag *component.Tag) {
		if !ok && tag.Kind == kind {
			found, ok = e, true
		}
	})
	return found, ok
}

// CountKind returns how many live entities carry kind.
func CountKind(w *ecs.World, kind component.EntityKind) int {
	n := 0
	ecs.ForEach(w, component.TagComponent.Kind(), func(_ ecs.Entity, tag *component.Tag) {
		if tag.Kind == kind {
			n++
		}
	})
	return n
}
