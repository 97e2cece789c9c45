package component

// RespawnPoint is where a player reappears after falling below FallLimit.
type RespawnPoint struct {
	X         float64
	Y         float64
	FallLimit float64
}

var RespawnPointComponent = NewComponent[RespawnPoint]()
