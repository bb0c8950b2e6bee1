package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the HTTP API surface. The bot and the web client
// share the same tracker, so state changes made here show up in chat
// immediately.
func NewRouter(h *Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", h.Ready)

	api := r.Group("/api")
	{
		api.POST("/chat", h.Chat)
		api.GET("/habits", h.ListHabits)
		api.POST("/habits/toggle", h.ToggleHabit)
		api.POST("/habits/confirm", h.ConfirmHabits)
		api.GET("/stats", h.Stats)
		api.POST("/reset", h.Reset)
		api.POST("/voice/events", h.VoiceEvent)
		api.GET("/voice/call", h.CallState)
		api.POST("/voice/call/start", h.StartCall)
		api.POST("/voice/call/stop", h.StopCall)
		api.POST("/voice/call/mute", h.ToggleCallMute)
	}
	return r
}
