package board

// Obstacle is the blocker type a card may carry.
type Obstacle string

const (
	None  Obstacle = "none"
	Ice   Obstacle = "ice"
	Stone Obstacle = "stone"
	Iron  Obstacle = "iron"
	Fire  Obstacle = "fire"
	Bomb  Obstacle = "bomb"
	Virus Obstacle = "virus"
)

// PlacementOrder is the order in which the generator places obstacle types.
var PlacementOrder = []Obstacle{Ice, Stone, Iron, Fire, Bomb, Virus}

// ParseObstacle maps a lowercase name to an Obstacle. The empty string is None.
func ParseObstacle(name string) (Obstacle, bool) {
	switch Obstacle(name) {
	case None, "":
		return None, true
	case Ice, Stone, Iron, Fire, Bomb, Virus:
		return Obstacle(name), true
	}
	return None, false
}

// Heavy reports whether the obstacle may not sit next to another heavy one.
func (o Obstacle) Heavy() bool {
	return o == Stone || o == Iron
}

// Hazard reports whether the obstacle uses blockedHealth rather than obstacleHealth.
func (o Obstacle) Hazard() bool {
	return o == Fire || o == Bomb || o == Virus
}

// InitialHealth returns the (obstacleHealth, blockedHealth) pair a freshly placed
// obstacle starts with.
func (o Obstacle) InitialHealth() (obstacle, blocked int) {
	switch o {
	case Ice:
		return 1, 0
	case Stone, Iron:
		return 2, 0
	case Fire, Bomb:
		return 0, 2
	case Virus:
		return 0, 1
	}
	return 0, 0
}
