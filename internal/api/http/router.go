// Package http exposes attempts and level data over a JSON API.
package http

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"twinclash/internal/api/ws"
	"twinclash/internal/live"
)

func NewRouter(m *live.Manager, hub *ws.Hub, scores Scores, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	// WebSocket for live snapshots
	r.GET("/ws", hub.HandleWS)

	// --- LEVEL ENDPOINTS ---
	r.GET("/levels", ListLevelsHandler(m))
	r.GET("/levels/:id", GetLevelHandler(m))
	r.GET("/levels/:id/best", BestHandler(scores))
	r.GET("/levels/:id/scores", TopScoresHandler(scores))

	// --- ATTEMPT ENDPOINTS ---
	r.POST("/attempts", CreateAttemptHandler(m))
	r.GET("/attempts/:id", GetAttemptHandler(m))
	r.POST("/attempts/:id/flip", FlipHandler(m))
	r.POST("/attempts/:id/freeze", FreezeHandler(m))
	r.POST("/attempts/:id/reveal", RevealHandler(m))
	r.DELETE("/attempts/:id", DeleteAttemptHandler(m))

	return r
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
