package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/auth"
	"ledgerlens/internal/config"
	"ledgerlens/internal/middleware"
)

func authRouter(v *auth.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(v))
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetSubject(c))
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := auth.NewTokenVerifier(&config.AuthConfig{JWTSecret: "s3cret", Issuer: "ledgerlens"})
	tok, err := v.Issue("svc-upload", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+tok)
	authRouter(v).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "svc-upload", w.Body.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	v := auth.NewTokenVerifier(&config.AuthConfig{JWTSecret: "s3cret"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	authRouter(v).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	v := auth.NewTokenVerifier(&config.AuthConfig{JWTSecret: "s3cret"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	authRouter(v).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}
