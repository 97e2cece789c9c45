package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/common"
	"github.com/milk9111/citygame/ecs"
	"github.com/milk9111/citygame/ecs/component"
)

const collisionTypeBody cp.CollisionType = 1

// ContactEventType tags world events carrying a ContactEvent.
const ContactEventType = "contact"

// ContactEvent is queued once per new contact between two entities.
type ContactEvent struct {
	A ecs.Entity
	B ecs.Entity
}

// PhysicsSystem owns the Chipmunk space. Bodies are created lazily for every
// entity with a PhysicsBody and Transform, and removed before the next step
// once their entity is gone.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	contacts []ContactEvent

	logger *log.Logger
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
		logger:   log.WithPrefix("physics"),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BodyCount returns the number of entities currently backed by the space.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.Sync(w)

	ps.space.Step(common.StepDT)

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

// Sync drops bodies of destroyed entities and creates bodies for new ones
// without stepping the simulation.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.handlersReady = false
	}
	ps.cleanupEntities(w)
	ps.syncEntities(w)
}

// Close removes every body from the space and releases it. A closed system
// builds a fresh space on its next update.
func (ps *PhysicsSystem) Close() {
	if ps == nil {
		return
	}
	for e, info := range ps.entities {
		ps.removeInfo(info)
		delete(ps.entities, e)
	}
	ps.shapes = make(map[*cp.Shape]ecs.Entity)
	ps.contacts = nil
	ps.space = nil
	ps.handlersReady = false
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	handler := ps.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = ps
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sys.shapes[shapeA]
		b, okB := sys.shapes[shapeB]
		if !okA || !okB {
			return true
		}
		// the space is locked here; only record the contact
		sys.contacts = append(sys.contacts, ContactEvent{A: a, B: b})
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if info := ps.entities[e]; info != nil {
			if pb.Body == nil || pb.Shape == nil {
				pb.Body = info.body
				pb.Shape = info.shape
			}
			return
		}

		info := ps.createBodyInfo(tr, pb)
		if info == nil {
			return
		}
		ps.entities[e] = info
		ps.shapes[info.shape] = e
		pb.Body = info.body
		pb.Shape = info.shape

		if ps.logger != nil {
			ps.logger.Debug("body created", "entity", e, "kind", kindOf(w, e), "x", tr.X, "y", tr.Y)
		}
	})
}

func (ps *PhysicsSystem) createBodyInfo(tr *component.Transform, pb *component.PhysicsBody) *bodyInfo {
	if ps.space == nil || tr == nil || pb == nil {
		return nil
	}

	width, height, radius := pb.Width, pb.Height, pb.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width, height = 1, 1
	}

	if pb.Type == component.BodyStatic {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: tr.X, Y: tr.Y})
		} else {
			bb := cp.BB{L: tr.X - width/2, B: tr.Y - height/2, R: tr.X + width/2, T: tr.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		configureShape(shape, pb)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	}

	var body *cp.Body
	if pb.Type == component.BodyKinematic {
		body = cp.NewKinematicBody()
	} else {
		mass := BodyMass(pb)
		moment := math.Inf(1)
		if !pb.FixedRotation {
			if radius > 0 {
				moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
			} else {
				moment = cp.MomentForBox(mass, width, height)
			}
		}
		body = cp.NewBody(mass, moment)
		if pb.NoGravity {
			body.SetVelocityUpdateFunc(func(b *cp.Body, _ cp.Vector, damping float64, dt float64) {
				cp.BodyUpdateVelocity(b, cp.Vector{}, damping, dt)
			})
		}
	}
	body.SetPosition(cp.Vector{X: tr.X, Y: tr.Y})
	body.SetAngle(tr.Rotation)
	body.SetVelocityVector(cp.Vector{X: pb.VelocityX, Y: pb.VelocityY})

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	configureShape(shape, pb)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape}
}

func configureShape(shape *cp.Shape, pb *component.PhysicsBody) {
	shape.SetFriction(pb.Friction)
	shape.SetElasticity(pb.Elasticity)
	shape.SetCollisionType(collisionTypeBody)
	if pb.Group != 0 {
		shape.SetFilter(cp.NewShapeFilter(pb.Group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
	}
}

// BodyMass returns the mass a dynamic body gets from its collider and density.
func BodyMass(pb *component.PhysicsBody) float64 {
	if pb == nil {
		return 1
	}
	density := pb.Density
	if density <= 0 {
		density = 1
	}
	var area float64
	if pb.Radius > 0 {
		area = math.Pi * pb.Radius * pb.Radius
	} else {
		area = pb.Width * pb.Height
	}
	if area <= 0 {
		return density
	}
	return density * area
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body == nil || pb.Type == component.BodyStatic {
			return
		}
		pos := pb.Body.Position()
		tr.X = pos.X
		tr.Y = pos.Y
		tr.Rotation = pb.Body.Angle()
	})
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	if len(ps.contacts) == 0 {
		return
	}
	events := w.Events()
	for _, c := range ps.contacts {
		events.Push(ecs.Event{Type: ContactEventType, Data: c})
	}
	ps.contacts = ps.contacts[:0]
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeInfo(info)
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) removeInfo(info *bodyInfo) {
	if info == nil {
		return
	}
	if info.shape != nil {
		delete(ps.shapes, info.shape)
		if ps.space != nil {
			ps.space.RemoveShape(info.shape)
		}
	}
	if info.body != nil && !info.static && ps.space != nil {
		ps.space.RemoveBody(info.body)
	}
}

func kindOf(w *ecs.World, e ecs.Entity) component.EntityKind {
	tag, ok := ecs.Get(w, e, component.TagComponent.Kind())
	if !ok {
		return component.KindNone
	}
	return tag.Kind
}
