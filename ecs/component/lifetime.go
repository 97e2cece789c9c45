package component

// Lifetime is a frame-based time-to-live. The lifetime system destroys the
// entity when Frames reaches zero.
type Lifetime struct {
	Frames int
}

var LifetimeComponent = NewComponent[Lifetime]()
