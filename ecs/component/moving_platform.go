package component

// MovingPlatform shuttles between two endpoints at a fixed speed per frame.
type MovingPlatform struct {
	StartX, StartY float64
	EndX, EndY     float64
	Speed          float64
	Epsilon        float64
	ToEnd          bool
}

var MovingPlatformComponent = NewComponent[MovingPlatform]()
