package main

import (
	"math/rand"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kaibot111/alien-shooter-multiplayer/config"
	"github.com/kaibot111/alien-shooter-multiplayer/game"
	"github.com/kaibot111/alien-shooter-multiplayer/guest"
	"github.com/kaibot111/alien-shooter-multiplayer/logger"
)

const TOKEN_AGE = time.Hour * 24 * 7

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Origin",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Bad configuration: %v", err)
	}
	if cfg.Debug {
		logger.SetDebug()
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	tokens := guest.NewTokenManager(cfg.JWTKey, TOKEN_AGE)
	guestHandler := guest.NewGuestHandler(tokens, TOKEN_AGE)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	generator := game.NewGenerator(cfg.GridMax, rand.New(rand.NewSource(time.Now().UnixNano())))
	registry := game.NewRegistry(game.Config{}, generator, rng)
	gameHandler := game.NewGameHandler(registry)

	r := CreateServer(cfg.AllowedOrigins)
	guestHandler.RegisterRoutes(r)
	gameHandler.RegisterRoutes(r, guestHandler.RequireGuestMiddleware())

	logger.Infof("api listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Couldn't start server: %v", err)
	}
}
