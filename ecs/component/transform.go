package component

// Transform mirrors the physics body position after every step so readers
// outside the simulation never touch the body directly.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
