package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/momaws232/ChatCord/internal/adapters/ws"
	"github.com/momaws232/ChatCord/internal/config"
	"github.com/momaws232/ChatCord/internal/relay"
)

func SetupRouter(ctx context.Context, cfg *config.Config, r *relay.Relay) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	e := gin.New()
	if cfg.Mode == "debug" {
		e.Use(gin.Logger())
	}
	e.Use(gin.Recovery())

	e.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ChatCord relay server is running")
	})

	api := e.Group("/api")

	// Read-only view of relay state, for operators.
	api.GET("/calls", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"calls": r.ActiveCalls()})
	})
	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"online": r.Online(), "activeCalls": len(r.ActiveCalls())})
	})

	ctl := ws.NewController(cfg, r)
	e.GET("/ws", func(c *gin.Context) {
		ctl.Handle(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return e
}
