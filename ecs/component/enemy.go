package component

// Patrol drives the basic enemy back and forth.
type Patrol struct {
	Speed        float64
	Bound        float64
	Direction    float64
	JumpChance   float64
	JumpVelocity float64
}

var PatrolComponent = NewComponent[Patrol]()

// Chaser steers horizontally toward the player while keeping away from peers.
type Chaser struct {
	Speed              float64
	SeparationRadius   float64
	SeparationStrength float64
}

var ChaserComponent = NewComponent[Chaser]()
