package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(tokens service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(tokens), func(ctx *gin.Context) {
		id, ok := UserID(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": id, "email": ctx.GetString(ContextEmail)})
	})
	return r
}

func TestAuthAcceptsIssuedToken(t *testing.T) {
	tokens := service.NewTokenService(&config.Config{AppName: "test", JWT: config.JWT{Secret: "k", Expiration: time.Hour}})
	token, _, err := tokens.Issue(42, "a@b.c")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newRouter(tokens).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"email":"a@b.c"}`, w.Body.String())
}

func TestAuthRejects(t *testing.T) {
	tokens := service.NewTokenService(&config.Config{JWT: config.JWT{Secret: "k", Expiration: time.Hour}})
	other := service.NewTokenService(&config.Config{JWT: config.JWT{Secret: "other", Expiration: time.Hour}})
	foreign, _, err := other.Issue(1, "x@y.z")
	require.NoError(t, err)
	expired, _, err := service.NewTokenService(&config.Config{JWT: config.JWT{Secret: "k", Expiration: -time.Minute}}).Issue(1, "x@y.z")
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"garbage":      "Bearer not-a-jwt",
		"wrong key":    "Bearer " + foreign,
		"expired":      "Bearer " + expired,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			newRouter(tokens).ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
