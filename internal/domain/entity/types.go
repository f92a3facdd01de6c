package entity

import "fmt"

// EntityID is a unique identifier for simulation entities. IDs are never recycled,
// so a stale handle paired with an ID can always be told apart from a new tenant.
type EntityID uint64

// IDSource hands out entity IDs for one simulation
type IDSource struct {
	next EntityID
}

// Next returns a fresh entity ID (never 0)
func (s *IDSource) Next() EntityID {
	s.next++
	return s.next
}

// Tags is a set of capability markers
type Tags uint8

const (
	TagEnemy Tags = 1 << iota
	TagTower
	TagProjectile
	TagFlying
	TagBoss
)

// Has reports whether every tag in o is set
func (t Tags) Has(o Tags) bool {
	return t&o == o
}

// DamageType selects how an enemy reduces incoming damage
type DamageType uint8

const (
	DamageUntyped DamageType = iota
	DamagePhysical
	DamageMagic
	DamageExplosive
)

var damageTypeNames = [...]string{"untyped", "physical", "magic", "explosive"}

func (d DamageType) String() string {
	if int(d) < len(damageTypeNames) {
		return damageTypeNames[d]
	}
	return "unknown"
}

// ParseDamageType converts a config string to a DamageType
func ParseDamageType(s string) (DamageType, error) {
	for i, name := range damageTypeNames {
		if name == s {
			return DamageType(i), nil
		}
	}
	return DamageUntyped, fmt.Errorf("unknown damage type %q", s)
}

// Damage is one hit delivered to a living entity
type Damage struct {
	Amount float64
	Type   DamageType
	Source EntityID // 0 for sourceless damage (burn ticks)
}

// EnemyKind is the closed set of enemy variants
type EnemyKind uint8

const (
	EnemyScout EnemyKind = iota
	EnemyKnight
	EnemyDragon
	enemyKindCount
)

var enemyKindNames = [...]string{"scout", "knight", "dragon"}

func (k EnemyKind) String() string {
	if k < enemyKindCount {
		return enemyKindNames[k]
	}
	return "unknown"
}

// EnemyKinds returns every enemy kind in declaration order
func EnemyKinds() []EnemyKind {
	return []EnemyKind{EnemyScout, EnemyKnight, EnemyDragon}
}

// ParseEnemyKind converts a config name to an EnemyKind
func ParseEnemyKind(s string) (EnemyKind, error) {
	for i, name := range enemyKindNames {
		if name == s {
			return EnemyKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown enemy kind %q", s)
}

// TowerKind is the closed set of tower variants
type TowerKind uint8

const (
	TowerArcher TowerKind = iota
	TowerCannon
	TowerMagic
	towerKindCount
)

var towerKindNames = [...]string{"archer", "cannon", "magic"}

func (k TowerKind) String() string {
	if k < towerKindCount {
		return towerKindNames[k]
	}
	return "unknown"
}

// TowerKinds returns every tower kind in declaration order
func TowerKinds() []TowerKind {
	return []TowerKind{TowerArcher, TowerCannon, TowerMagic}
}

// ParseTowerKind converts a config name to a TowerKind
func ParseTowerKind(s string) (TowerKind, error) {
	for i, name := range towerKindNames {
		if name == s {
			return TowerKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tower kind %q", s)
}

// ProjectileKind is the closed set of projectile variants
type ProjectileKind uint8

const (
	ProjectileArrow ProjectileKind = iota
	ProjectileCannonball
	ProjectileMagicMissile
)

func (k ProjectileKind) String() string {
	switch k {
	case ProjectileArrow:
		return "arrow"
	case ProjectileCannonball:
		return "cannonball"
	case ProjectileMagicMissile:
		return "magic_missile"
	default:
		return "unknown"
	}
}
