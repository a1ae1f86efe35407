package app

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/staffdesk/internal/domain"
	"github.com/simp-lee/staffdesk/internal/pkg"
)

// errRouteNotFound is reported for every path no module handles.
var errRouteNotFound = domain.NewAppError(domain.CodeNotFound, "not found", nil)

// noRouteHandler answers unknown paths with a 404 envelope.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		pkg.Error(c, errRouteNotFound)
	}
}
