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

// WishlistModule wires every wishlist route. All of them require a valid
// bearer token; per-operation authorization happens in the service.
type WishlistModule struct {
	Handler *handlers.WishlistHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
}

func NewWishlistModule(h *handlers.WishlistHandler, jwt *helpers.JWTManager, users repository.UserRepository) *WishlistModule {
	return &WishlistModule{Handler: h, JWT: jwt, Users: users}
}

func (m *WishlistModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT, m.Users))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.POST("/wishlists", m.Handler.Create)
		auth.GET("/wishlists", m.Handler.List)
		auth.GET("/wishlists/:id", m.Handler.Get)
		auth.PUT("/wishlists/:id", m.Handler.Update)
		auth.DELETE("/wishlists/:id", m.Handler.Delete)

		auth.POST("/wishlists/:id/items", m.Handler.AddItem)
		auth.PUT("/wishlists/:id/items/:itemId", m.Handler.UpdateItem)
		auth.DELETE("/wishlists/:id/items/:itemId", m.Handler.DeleteItem)

		auth.POST("/wishlists/:id/invite", m.Handler.Invite)
		auth.DELETE("/wishlists/:id/collaborators/:userId", m.Handler.RemoveCollaborator)
	}
}
