package auth

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/staffdesk/internal/pkg"
)

// AuthHandler handles token requests.
type AuthHandler struct {
	svc Service
}

// NewHandler creates a new AuthHandler with the given service.
func NewHandler(svc Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Pair handles POST /api/token/pair.
func (h *AuthHandler) Pair(c *gin.Context) {
	var req PairRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Pair(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "token pair rejected",
			slog.String("username", req.Username),
			slog.String("client_ip", c.ClientIP()),
			slog.Any("error", err),
		)
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, resp)
}

// Refresh handles POST /api/token/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, resp)
}
