package component

// Projectile flies at the velocity it was spawned with. Lifespan is in
// seconds of simulated time; zero means it only dies on impact or when it
// leaves the world.
type Projectile struct {
	Speed     float64
	Lifespan  float64
	Elapsed   float64
	Destroyed bool
}

var ProjectileComponent = NewComponent[Projectile]()
