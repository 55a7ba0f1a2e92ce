package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// Auth requires "Authorization: Bearer <jwt>" and stores the caller in the context.
func Auth(tokens service.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or malformed Authorization header"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Auth: rejected token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		userID, _ := claims.UserID()
		ctx.Set(ContextUserID, userID)
		ctx.Set(ContextEmail, claims.Email)
		ctx.Next()
	}
}

// UserID returns the authenticated caller; ok is false outside Auth.
func UserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
