package router

import (
	"github.com/wishwell/wishwell-server/internal/application"
	"github.com/wishwell/wishwell-server/internal/container"
	pginfra "github.com/wishwell/wishwell-server/internal/infrastructure/postgres"
	handlers "github.com/wishwell/wishwell-server/internal/interface/http"
	"github.com/wishwell/wishwell-server/internal/router/modules"
)

// InitModules builds repositories, services and handlers from the container
// singletons and registers every feature module.
// Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	lists := pginfra.NewWishlistRepository(container.GetPGPool())

	userSvc := &application.UserService{
		Repo:         users,
		JWT:          container.GetJWT(),
		GCS:          container.GetGCS(),
		GCSBucket:    cfg.GCSBucket,
		ES:           container.GetES(),
		ESUsersIndex: cfg.ESUsersIndex,
		Pub:          container.GetRabbitPub(),
		Logger:       container.GetLogger(),
		AppName:      cfg.AppName,
		MailEnabled:  cfg.MailSendEnabled,
	}
	listSvc := &application.WishlistService{
		Lists:       lists,
		Users:       users,
		Pub:         container.GetRabbitPub(),
		Logger:      container.GetLogger(),
		AppName:     cfg.AppName,
		RegisterURL: cfg.RegisterURL,
		MailEnabled: cfg.MailSendEnabled,
	}

	jwt := container.GetJWT()
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger), jwt, users))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwt, users))
	r.Add(modules.NewWishlistModule(handlers.NewWishlistHandler(listSvc, logger), jwt, users))
}
