package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/user-service/internal/container"
	handlers "github.com/coursehub/user-service/internal/interface/http"
	"github.com/coursehub/user-service/internal/interface/middleware"
	"github.com/coursehub/user-service/pkg/helpers"
)

// CartModule wires the cart surface under /api/cart; all routes require auth.
type CartModule struct {
	Handler *handlers.CartHandler
	JWT     *helpers.JWTManager
}

func NewCartModule(h *handlers.CartHandler, jwt *helpers.JWTManager) *CartModule {
	return &CartModule{Handler: h, JWT: jwt}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.Use(middleware.Auth(m.JWT))
	cart.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		cart.POST("/items", m.Handler.Add)
		cart.POST("/items/toggle", m.Handler.Toggle)
		cart.DELETE("/items", m.Handler.Remove)
		cart.GET("/user/:userId", m.Handler.ListByUser)
		cart.DELETE("/user/:userId", m.Handler.Clear)
	}
}
