package component

// Collectible rewards the player on contact.
type Collectible struct {
	Credits          int
	GrantDoubleJump  bool
	DoubleJumpFrames int
}

var CollectibleComponent = NewComponent[Collectible]()
