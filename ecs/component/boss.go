package component

// Boss chases the player and fires a fireball every FireInterval frames.
type Boss struct {
	Speed          float64
	FireInterval   int
	StepsSinceShot int
}

var BossComponent = NewComponent[Boss]()
