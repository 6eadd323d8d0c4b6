package router

import "github.com/gin-gonic/gin"

// Module is one routable feature area; Register mounts its routes on the
// shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
