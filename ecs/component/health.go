package component

// Health is carried by enemies that can be shot down.
type Health struct {
	Max     int
	Current int
	// Dead latches once Current reaches zero; damage after that is ignored.
	Dead bool
}

var HealthComponent = NewComponent[Health]()
