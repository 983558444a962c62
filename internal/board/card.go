package board

// Card is one cell of the board.
type Card struct {
	ID             int      `json:"id"`
	PairKey        int      `json:"pairKey"`
	Flipped        bool     `json:"flipped"`
	Matched        bool     `json:"matched"`
	Obstacle       Obstacle `json:"obstacle"`
	ObstacleHealth int      `json:"obstacleHealth"`
	BlockedHealth  int      `json:"blockedHealth"`
	Wildcard       bool     `json:"wildcard,omitempty"`
}

// Obstructed reports whether an obstacle with remaining health locks the card.
func (c Card) Obstructed() bool {
	if c.Obstacle == None || c.Obstacle == "" {
		return false
	}
	return c.ObstacleHealth > 0 || c.BlockedHealth > 0
}

// SetObstacle places o on the card with its initial health.
func (c *Card) SetObstacle(o Obstacle) {
	c.Obstacle = o
	c.ObstacleHealth, c.BlockedHealth = o.InitialHealth()
}

// Convert replaces the current obstacle with a hazard spread onto the card.
// Spread hazards start weaker than placed ones.
func (c *Card) Convert(o Obstacle) {
	c.Obstacle = o
	c.ObstacleHealth = 0
	c.BlockedHealth = 0
	if o == Virus {
		c.BlockedHealth = 1
	}
}

func (c *Card) ClearObstacle() {
	c.Obstacle = None
	c.ObstacleHealth = 0
	c.BlockedHealth = 0
}

// Damage applies one point of adjacency damage. obstacleHealth absorbs it first.
// It returns true when the hit destroyed the obstacle.
func (c *Card) Damage() bool {
	switch {
	case c.ObstacleHealth > 0:
		c.ObstacleHealth--
		if c.ObstacleHealth == 0 && c.BlockedHealth == 0 {
			c.ClearObstacle()
			return true
		}
	case c.BlockedHealth > 0:
		c.BlockedHealth--
		if c.BlockedHealth == 0 {
			c.ClearObstacle()
			return true
		}
	}
	return false
}

// Health is the total remaining obstacle health of the card.
func (c Card) Health() int {
	return c.ObstacleHealth + c.BlockedHealth
}
