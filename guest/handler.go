package guest

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const MAX_NAME_LENGTH = 24

var (
	ErrMissingTokenStr = "missing-token"
	ErrBadTokenStr     = "bad-token"
	ErrInvalidNameStr  = "invalid-name"
	ErrBadRequestStr   = "bad-request-format"
)

type GuestHandler struct {
	tokens       *TokenManager
	cookieMaxAge time.Duration
}

func NewGuestHandler(tokens *TokenManager, cookieMaxAge time.Duration) *GuestHandler {
	return &GuestHandler{tokens: tokens, cookieMaxAge: cookieMaxAge}
}

// SessionHandler mints a guest identity: the caller picks a display name and
// gets back a signed token, also set as a cookie for the websocket upgrade.
func (gh *GuestHandler) SessionHandler(ctx *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.String(http.StatusBadRequest, ErrBadRequestStr)
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" || utf8.RuneCountInString(name) > MAX_NAME_LENGTH {
		ctx.String(http.StatusBadRequest, ErrInvalidNameStr)
		return
	}

	token, id, err := gh.tokens.Issue(name)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}

	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie("token", token, int(gh.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.JSON(http.StatusOK, gin.H{"playerId": id, "name": name})
}

// RequireGuestMiddleware rejects requests without a valid guest token and
// exposes the guest's id and name to downstream handlers.
func (gh *GuestHandler) RequireGuestMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		id, name, err := gh.tokens.Verify(token)
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrBadTokenStr)
			ctx.Abort()
			return
		}

		ctx.Set("id", id)
		ctx.Set("name", name)
		ctx.Next()
	}
}

// RegisterRoutes mounts the guest session endpoint.
func (gh *GuestHandler) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/guest")
	group.POST("/session", gh.SessionHandler)
}
