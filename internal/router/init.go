package router

import (
	"github.com/coursehub/user-service/internal/application"
	"github.com/coursehub/user-service/internal/container"
	"github.com/coursehub/user-service/internal/infrastructure/observe"
	"github.com/coursehub/user-service/internal/infrastructure/postgres"
	handlers "github.com/coursehub/user-service/internal/interface/http"
	"github.com/coursehub/user-service/internal/router/modules"
)

// InitModules builds each feature module from the container singletons and
// registers it. Called once during startup.
func InitModules(r *Registry) {
	logger := container.GetLogger()
	pool := container.GetPGPool()
	appCache := container.GetCache()

	userRepo := observe.UserRepository(postgres.NewUserRepository(pool, appCache, logger), logger)
	cartRepo := observe.CartRepository(postgres.NewCartRepository(pool, appCache, logger), logger)
	wishRepo := observe.WishlistRepository(postgres.NewWishlistRepository(pool, appCache, logger), logger)

	userSvc := application.NewUserService(userRepo, logger)
	userSvc.GCS = container.GetGCS()
	userSvc.GCSBucket = container.GetConfig().GCSBucket
	userSvc.ES = container.GetES()
	userSvc.ESUsersIndex = container.GetConfig().ESUsersIndex
	userSvc.VerifyURL = container.GetConfig().VerifyURL
	if p := container.GetEmailPub(); p != nil {
		userSvc.Email = p
	}
	if p := container.GetEventPub(); p != nil {
		userSvc.Events = p
	}

	cartSvc := application.NewCartService(cartRepo, logger)
	wishSvc := application.NewWishlistService(wishRepo, logger)
	if p := container.GetEventPub(); p != nil {
		cartSvc.Events = p
		wishSvc.Events = p
	}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), container.GetJWT()))
	r.Add(modules.NewCartModule(handlers.NewCartHandler(cartSvc, logger), container.GetJWT()))
	r.Add(modules.NewWishlistModule(handlers.NewWishlistHandler(wishSvc, logger), container.GetJWT()))
	r.Add(modules.NewDebugModule())
}
