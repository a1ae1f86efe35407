package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// Each module mounts its endpoints on the group it is given; whether that
// group requires authentication is decided by the caller.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}
