package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/momaws232/ChatCord/internal/config"
	"github.com/momaws232/ChatCord/internal/domain"
	"github.com/momaws232/ChatCord/internal/relay"
)

type Controller struct {
	Relay    *relay.Relay
	Cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, r *relay.Relay) *Controller {
	ctl := &Controller{Relay: r, Cfg: cfg}
	ctl.upgrader = websocket.Upgrader{
		CheckOrigin: func(req *http.Request) bool {
			return originAllowed(req.Header.Get("Origin"), cfg.AllowedOrigins)
		},
	}
	return ctl
}

// Non-browser clients send no Origin header; those are allowed.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// Handle upgrades GET /ws?userId=... into the relay protocol. A
// missing identity rejects the connection before the upgrade.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	user := domain.UserID(c.Query("userId"))
	if user == "" {
		log.Warn().Str("module", "ws").Msg("connection rejected, no userId")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
		return
	}

	conn, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}

	// Handle is unique per transport connection; the registry uses it
	// to tell a stale disconnect from the current one.
	handle := uuid.NewString()
	wc := newWSConn(conn, ctl.Cfg.SendBuffer)

	log.Info().Str("module", "ws").Str("user", string(user)).Str("handle", handle).Msg("new WS connection")
	ctl.Relay.Connect(handle, user, wc)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, cancel, wc)
	go ctl.readPump(ctx, cancel, handle, user, wc)
}
