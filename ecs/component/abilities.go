package component

// Abilities holds timed player power-ups. DoubleJumpUntil is a world frame
// deadline; the grant is cancelled when the frame is reached.
type Abilities struct {
	DoubleJump      bool
	DoubleJumpUntil uint64
}

var AbilitiesComponent = NewComponent[Abilities]()
