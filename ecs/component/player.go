package component

// PlayerStateID names the player's movement state.
type PlayerStateID uint8

const (
	PlayerIdle PlayerStateID = iota
	PlayerWalking
	PlayerJumping
	PlayerDoubleJumpWindow
)

func (s PlayerStateID) String() string {
	switch s {
	case PlayerWalking:
		return "walking"
	case PlayerJumping:
		return "jumping"
	case PlayerDoubleJumpWindow:
		return "double_jump_window"
	default:
		return "idle"
	}
}

type Player struct {
	WalkSpeed        float64
	RunSpeed         float64
	JumpImpulse      float64
	RunJumpImpulse   float64
	DoubleJumpFactor float64
	ShootOffset      float64

	// Facing is +1 (right) or -1 (left).
	Facing         float64
	Moving         bool
	DoubleJumpUsed bool
	State          PlayerStateID
}

var PlayerComponent = NewComponent[Player]()
