package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/rs/zerolog/log"
)

// TokenAuthenticator resolves a bearer token to the user key it was issued for.
type TokenAuthenticator func(token string) (string, error)

type Handler struct {
	hub          *Hub
	upgrader     websocket.Upgrader
	authenticate TokenAuthenticator
	requireToken bool
}

// NewHandler accepts upgrades from the given origins; "*" or an empty list allows any.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// WithTokenAuth lets clients identify with ?token=. With required set, a bare
// user_id is refused.
func (h *Handler) WithTokenAuth(auth TokenAuthenticator, required bool) *Handler {
	h.authenticate = auth
	h.requireToken = required
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// ServeWS godoc
// @Summary Open the realtime connection
// @Description Upgrades to a websocket carrying {"event","data"} frames for presence, messages and call signaling.
// @Tags Realtime
// @Param user_id query string false "User ID to register"
// @Param token query string false "JWT; the user ID is taken from its subject"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} dto.ErrorResponse "Missing user_id"
// @Failure 401 {object} dto.ErrorResponse "Invalid or required token"
// @Failure 403 {object} dto.ErrorResponse "user_id does not match the token"
// @Router /ws [get]
func (h *Handler) ServeWS(ctx *gin.Context) {
	userID, status, msg := h.identify(ctx)
	if status != 0 {
		ctx.JSON(status, dto.ErrorResponse{Message: msg})
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("ServeWS: upgrade failed")
		return
	}

	client := NewClient(userID, conn)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump(h.hub)
}

// identify returns the user key for the connection, or a non-zero status.
func (h *Handler) identify(ctx *gin.Context) (string, int, string) {
	userID := strings.TrimSpace(ctx.Query("user_id"))
	token := strings.TrimSpace(ctx.Query("token"))

	if token == "" || h.authenticate == nil {
		if h.requireToken {
			return "", http.StatusUnauthorized, "Missing token"
		}
		if userID == "" {
			return "", http.StatusBadRequest, "Missing user_id"
		}
		return userID, 0, ""
	}

	subject, err := h.authenticate(token)
	if err != nil {
		log.Warn().Err(err).Msg("ServeWS: rejected token")
		return "", http.StatusUnauthorized, "Invalid or expired token"
	}
	if userID != "" && userID != subject {
		return "", http.StatusForbidden, "user_id does not match the token"
	}
	return subject, 0, ""
}
