package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"twinclash/internal/level"
	"twinclash/internal/live"
	"twinclash/internal/scoring"
)

// Scores is the outcome history the level endpoints read from.
type Scores interface {
	Best(levelID int) (scoring.LevelBest, error)
	TopOutcomes(levelID, limit int) ([]scoring.OutcomeEntry, error)
}

func levelID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level id"})
		return 0, false
	}
	return id, true
}

func attemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, live.ErrAttemptNotFound), errors.Is(err, live.ErrLevelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, level.ErrInvalidDescriptor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListLevelsHandler returns the catalog, optionally filtered by ?world=.
func ListLevelsHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := m.Catalog()
		if cat == nil {
			c.JSON(http.StatusOK, gin.H{"levels": []level.Descriptor{}})
			return
		}
		levels := cat.Levels
		if w := c.Query("world"); w != "" {
			n, err := strconv.Atoi(w)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid world"})
				return
			}
			levels = cat.World(n)
		}
		c.JSON(http.StatusOK, gin.H{"levels": levels, "worlds": cat.Worlds()})
	}
}

func GetLevelHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := levelID(c)
		if !ok {
			return
		}
		if m.Catalog() == nil {
			attemptError(c, live.ErrLevelNotFound)
			return
		}
		d, found := m.Catalog().Get(id)
		if !found {
			attemptError(c, live.ErrLevelNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"level": d, "targets": scoring.StarTargets(d.Pairs)})
	}
}

func BestHandler(scores Scores) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := levelID(c)
		if !ok {
			return
		}
		if scores == nil {
			c.JSON(http.StatusOK, gin.H{"best": scoring.LevelBest{LevelID: id}})
			return
		}
		best, err := scores.Best(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"best": best})
	}
}

func TopScoresHandler(scores Scores) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := levelID(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		entries := []scoring.OutcomeEntry{}
		if scores != nil {
			top, err := scores.TopOutcomes(id, limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			entries = append(entries, top...)
		}
		c.JSON(http.StatusOK, gin.H{"scores": entries})
	}
}

func CreateAttemptHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAttemptRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		seed := req.Seed
		if req.Daily {
			seed = level.DailySeed(time.Now())
		}

		var (
			a   *live.Attempt
			err error
		)
		switch {
		case req.Level != nil:
			d := *req.Level
			if seed != "" {
				d.Seed = seed
			}
			a, err = m.Create(d)
		case req.LevelID > 0:
			a, err = m.CreateLevel(req.LevelID, seed)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "levelId or level required"})
			return
		}
		if err != nil {
			attemptError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"attemptId": a.ID, "snapshot": a.Game.Snapshot()})
	}
}

func GetAttemptHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := m.Snapshot(c.Param("id"))
		if err != nil {
			attemptError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshot": snap})
	}
}

func FlipHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FlipRequest
		if err := c.BindJSON(&req); err != nil || req.CardID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cardId required"})
			return
		}
		snap, accepted, err := m.Flip(c.Param("id"), *req.CardID)
		if err != nil {
			attemptError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"accepted": accepted, "snapshot": snap})
	}
}

func FreezeHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok, err := m.Freeze(c.Param("id"))
		if err != nil {
			attemptError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"accepted": ok, "snapshot": snap})
	}
}

func RevealHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RevealRequest
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				return
			}
		}
		snap, n, err := m.Reveal(c.Param("id"), req.Percent)
		if err != nil {
			attemptError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"revealed": n, "snapshot": snap})
	}
}

func DeleteAttemptHandler(m *live.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := m.Delete(c.Param("id"))
		if err != nil {
			attemptError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"outcome": snap.Outcome})
	}
}
