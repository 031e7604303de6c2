package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wishwell/wishwell-server/internal/container"
	"github.com/wishwell/wishwell-server/internal/domain/repository"
	handlers "github.com/wishwell/wishwell-server/internal/interface/http"
	"github.com/wishwell/wishwell-server/internal/interface/middleware"
	"github.com/wishwell/wishwell-server/pkg/helpers"
)

// UserModule wires profile mutation and user search routes, all protected.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, users repository.UserRepository) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/auth/me", m.Handler.UpdateProfile)
		auth.POST("/auth/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/users/search", m.Handler.Search)
	}
}
