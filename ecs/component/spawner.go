package component

// Spawner periodically creates entities of Kind at a random point inside
// the given area. Countdown starts at zero so the first spawn is immediate.
type Spawner struct {
	Kind           EntityKind
	IntervalFrames int
	Countdown      int
	MinX, MaxX     float64
	MinY, MaxY     float64
	// MaxAlive caps live entities of Kind; zero means unlimited.
	MaxAlive int
}

var SpawnerComponent = NewComponent[Spawner]()
