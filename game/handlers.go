package game

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kaibot111/alien-shooter-multiplayer/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the server-wide allow-list middleware.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type GameHandler struct {
	registry *Registry
}

func NewGameHandler(registry *Registry) *GameHandler {
	return &GameHandler{registry: registry}
}

// ConnectHandler upgrades an authenticated request to a websocket and starts
// the session pumps. Each connection gets a fresh player id: two tabs under
// the same guest token play as two players.
func (h *GameHandler) ConnectHandler(ctx *gin.Context) {
	name := ctx.GetString("name")
	if name == "" {
		logger.Criticalf("Missing display name on authenticated request from %s. What is the middleware doing?", ctx.ClientIP())
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("WS upgrade failed for %s: %v", ctx.ClientIP(), err)
		return
	}

	session := NewSession(uuid.NewString(), name, h.registry, NewWebsocketConnection(conn))
	logger.Infof("Player %s connected", name)

	go session.ReadPump()
	go session.WritePump()
}

// RegisterRoutes mounts the websocket endpoint behind the given middleware.
func (h *GameHandler) RegisterRoutes(engine *gin.Engine, requireAuth gin.HandlerFunc) {
	group := engine.Group("/game")
	group.Use(requireAuth)
	group.GET("/connect", h.ConnectHandler)
}
