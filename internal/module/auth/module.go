// Package auth issues and verifies the JWT token pair used by the API.
package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for the token endpoints.
type AuthModule struct {
	handler *AuthHandler
}

// NewModule creates a new AuthModule with the given handler.
// Panics if h is nil.
func NewModule(h *AuthHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	return &AuthModule{handler: h}
}

// RegisterRoutes mounts /token/pair and /token/refresh. Both are public.
func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup) {
	token := api.Group("/token")
	token.POST("/pair", m.handler.Pair)
	token.POST("/refresh", m.handler.Refresh)
}
