package component

import "github.com/jakecoffman/cp"

// BodyType selects how the physics system drives a body.
type BodyType uint8

const (
	BodyDynamic BodyType = iota
	BodyStatic
	BodyKinematic
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape stay nil until the physics system creates them.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Type          BodyType
	Width         float64
	Height        float64
	Radius        float64
	Density       float64
	Friction      float64
	Elasticity    float64
	FixedRotation bool
	NoGravity     bool
	// Group puts shapes in a Chipmunk collision group; shapes sharing a
	// non-zero group never collide.
	Group uint

	// Initial velocity applied when the body is created.
	VelocityX float64
	VelocityY float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
