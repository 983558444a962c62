package board

// CardView is the render-safe projection of a card. PairKey is only set
// while the card is face-up or matched.
type CardView struct {
	ID             int    `json:"id"`
	Index          int    `json:"index"`
	Row            int    `json:"row"`
	Col            int    `json:"col"`
	FaceUp         bool   `json:"faceUp"`
	Matched        bool   `json:"matched"`
	PairKey        *int   `json:"pairKey,omitempty"`
	Obstacle       string `json:"obstacle"`
	ObstacleHealth int    `json:"obstacleHealth"`
	BlockedHealth  int    `json:"blockedHealth"`
	Wildcard       bool   `json:"wildcard,omitempty"`
	Hinted         bool   `json:"hinted,omitempty"`
	Playable       bool   `json:"playable"`
}

// BuildCardViews projects the board for rendering. showAll exposes every
// pair key, which is how the preview phase is drawn.
func BuildCardViews(b *Board, hinted []int, showAll bool) []CardView {
	hint := make(map[int]bool, len(hinted))
	for _, i := range hinted {
		hint[i] = true
	}

	views := make([]CardView, len(b.Cards))
	for i, c := range b.Cards {
		row, col := b.Pos(i)
		v := CardView{
			ID:             c.ID,
			Index:          i,
			Row:            row,
			Col:            col,
			FaceUp:         c.Flipped || c.Matched || showAll,
			Matched:        c.Matched,
			Obstacle:       string(c.Obstacle),
			ObstacleHealth: c.ObstacleHealth,
			BlockedHealth:  c.BlockedHealth,
			Hinted:         hint[i],
			Playable:       b.Playable(i),
		}
		if v.FaceUp {
			key := c.PairKey
			v.PairKey = &key
			v.Wildcard = c.Wildcard
		}
		views[i] = v
	}
	return views
}
