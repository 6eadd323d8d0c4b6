package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/user-service/internal/container"
	handlers "github.com/coursehub/user-service/internal/interface/http"
	"github.com/coursehub/user-service/internal/interface/middleware"
	"github.com/coursehub/user-service/pkg/helpers"
)

// UserModule wires user HTTP handlers into routes.
// Public: POST /api/users, POST /api/users/:userId/verify
// Protected: the rest of the user surface; admin-only mutations are gated by role.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP()) // 10 req/min per IP

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/users/:userId/verify", registerLimiter, m.Handler.Verify)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()),
	)
	{
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/search", m.Handler.Search)
		auth.GET("/users/by-email", m.Handler.GetByEmail)
		auth.POST("/users/by-ids", m.Handler.ByIDs)
		auth.GET("/users/instructors", m.Handler.Instructors)
		auth.GET("/users/:userId", m.Handler.Get)
		auth.PUT("/users/:userId", m.Handler.UpdateBasicData)
		auth.PUT("/users/:userId/profile", m.Handler.UpdateProfile)
		auth.PUT("/users/:userId/instructor-profile", m.Handler.UpdateInstructorProfile)
		auth.PUT("/users/:userId/socials", m.Handler.SetSocials)
		auth.POST("/users/:userId/avatar", m.Handler.UploadAvatar)

		admin := auth.Group("/", middleware.RequireRole("admin"))
		admin.GET("/users/emails", m.Handler.ListEmails)
		admin.PUT("/users/:userId/status", m.Handler.UpdateStatus)
		admin.PUT("/users/:userId/role", m.Handler.UpdateRole)
		admin.POST("/users/:userId/block", m.Handler.Block)
		admin.POST("/users/:userId/activate", m.Handler.Activate)
		admin.POST("/users/:userId/promote", m.Handler.Promote)
	}
}
