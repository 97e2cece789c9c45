package component

// Input stores the latest control commands for the player. Pressed flags are
// edge-triggered and cleared once consumed.
type Input struct {
	MoveX        float64
	Run          bool
	JumpPressed  bool
	ShootPressed bool
	Disabled     bool
}

var InputComponent = NewComponent[Input]()
