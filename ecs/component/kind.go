package component

// EntityKind discriminates the behavioural category of an entity. Collision
// resolution is keyed on pairs of kinds.
type EntityKind uint8

const (
	KindNone EntityKind = iota
	KindPlayer
	KindEnemyBasic
	KindEnemyChaser
	KindEnemyChaser2
	KindBoss
	KindBullet
	KindFireball
	KindCollectible
	KindMovingPlatform
	KindGround
	KindWall
	KindPlatform
	KindBall

	kindCount
)

var kindNames = [...]string{
	KindNone:           "none",
	KindPlayer:         "player",
	KindEnemyBasic:     "enemy",
	KindEnemyChaser:    "chaser",
	KindEnemyChaser2:   "chaser2",
	KindBoss:           "boss",
	KindBullet:         "bullet",
	KindFireball:       "fireball",
	KindCollectible:    "collectible",
	KindMovingPlatform: "moving_platform",
	KindGround:         "ground",
	KindWall:           "wall",
	KindPlatform:       "platform",
	KindBall:           "ball",
}

func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a level/prefab type name to its kind.
func ParseKind(name string) (EntityKind, bool) {
	for i, n := range kindNames {
		if n == name && EntityKind(i) != KindNone {
			return EntityKind(i), true
		}
	}
	return KindNone, false
}

// AllKinds lists every concrete kind.
func AllKinds() []EntityKind {
	out := make([]EntityKind, 0, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsStatic reports whether the kind is immovable level geometry. Moving
// platforms count: they are driven by position, never by forces.
func (k EntityKind) IsStatic() bool {
	switch k {
	case KindGround, KindWall, KindPlatform, KindMovingPlatform:
		return true
	}
	return false
}

func (k EntityKind) IsChaser() bool {
	return k == KindEnemyChaser || k == KindEnemyChaser2
}

func (k EntityKind) IsProjectile() bool {
	return k == KindBullet || k == KindFireball
}

// IsCharacter reports whether the kind is a walking character.
func (k EntityKind) IsCharacter() bool {
	switch k {
	case KindPlayer, KindEnemyBasic, KindEnemyChaser, KindEnemyChaser2, KindBoss:
		return true
	}
	return false
}
