package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/user-service/internal/container"
	handlers "github.com/coursehub/user-service/internal/interface/http"
	"github.com/coursehub/user-service/internal/interface/middleware"
	"github.com/coursehub/user-service/pkg/helpers"
)

// WishlistModule wires the wishlist surface under /api/wishlist.
type WishlistModule struct {
	Handler *handlers.WishlistHandler
	JWT     *helpers.JWTManager
}

func NewWishlistModule(h *handlers.WishlistHandler, jwt *helpers.JWTManager) *WishlistModule {
	return &WishlistModule{Handler: h, JWT: jwt}
}

func (m *WishlistModule) Register(rg *gin.RouterGroup) {
	wl := rg.Group("/wishlist")
	wl.Use(middleware.Auth(m.JWT))
	wl.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		wl.POST("/items", m.Handler.Add)
		wl.POST("/items/toggle", m.Handler.Toggle)
		wl.DELETE("/items", m.Handler.Remove)
		wl.GET("/user/:userId", m.Handler.ListByUser)
	}
}
