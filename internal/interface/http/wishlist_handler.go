package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wishwell/wishwell-server/internal/application"
	"github.com/wishwell/wishwell-server/internal/domain/entity"
	"github.com/wishwell/wishwell-server/internal/interface/middleware"
	"github.com/wishwell/wishwell-server/pkg/response"
	"github.com/wishwell/wishwell-server/pkg/validation"
)

type WishlistHandler struct {
	Svc    *application.WishlistService
	Logger *logrus.Logger
}

func NewWishlistHandler(svc *application.WishlistService, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{Svc: svc, Logger: logger}
}

type createWishlistRequest struct {
	Name        string `json:"name" binding:"required,listname"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"omitempty,listtype"`
}

type updateWishlistRequest struct {
	Name        *string `json:"name" binding:"omitempty,listname"`
	Description *string `json:"description"`
	Type        *string `json:"type" binding:"omitempty,listtype"`
}

type addItemRequest struct {
	Name        string   `json:"name" binding:"required,listname"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	URL         string   `json:"url" binding:"omitempty,url"`
}

type updateItemRequest struct {
	Name        *string  `json:"name" binding:"omitempty,listname"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	URL         *string  `json:"url"`
	IsPurchased *bool    `json:"is_purchased"`
}

type inviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func actor(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// Create POST /api/wishlists
func (h *WishlistHandler) Create(c *gin.Context) {
	var req createWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Svc.Create(c.Request.Context(), actor(c), application.CreateWishlistInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        entity.WishlistType(req.Type),
	})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, w, "wishlist created", nil)
}

// List GET /api/wishlists
func (h *WishlistHandler) List(c *gin.Context) {
	lists, err := h.Svc.List(c.Request.Context(), actor(c))
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, lists, "wishlists", gin.H{"count": len(lists)})
}

// Get GET /api/wishlists/:id
func (h *WishlistHandler) Get(c *gin.Context) {
	w, err := h.Svc.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, w, "wishlist", nil)
}

// Update PUT /api/wishlists/:id
func (h *WishlistHandler) Update(c *gin.Context) {
	var req updateWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	patch := entity.MetadataPatch{Name: req.Name, Description: req.Description}
	if req.Type != nil {
		t := entity.WishlistType(*req.Type)
		patch.Type = &t
	}
	w, err := h.Svc.UpdateMetadata(c.Request.Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, w, "wishlist updated", nil)
}

// Delete DELETE /api/wishlists/:id
func (h *WishlistHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "wishlist deleted", nil)
}

// AddItem POST /api/wishlists/:id/items
func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	item, err := h.Svc.AddItem(c.Request.Context(), actor(c), c.Param("id"), application.AddItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
	})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, item, "item added", nil)
}

// UpdateItem PUT /api/wishlists/:id/items/:itemId
func (h *WishlistHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	item, err := h.Svc.UpdateItem(c.Request.Context(), actor(c), c.Param("id"), c.Param("itemId"), entity.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
		IsPurchased: req.IsPurchased,
	})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, item, "item updated", nil)
}

// DeleteItem DELETE /api/wishlists/:id/items/:itemId
func (h *WishlistHandler) DeleteItem(c *gin.Context) {
	if err := h.Svc.DeleteItem(c.Request.Context(), actor(c), c.Param("id"), c.Param("itemId")); err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "item removed", nil)
}

// Invite POST /api/wishlists/:id/invite
func (h *WishlistHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Svc.Invite(c.Request.Context(), actor(c), c.Param("id"), req.Email)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, w, "invite processed", nil)
}

// RemoveCollaborator DELETE /api/wishlists/:id/collaborators/:userId
func (h *WishlistHandler) RemoveCollaborator(c *gin.Context) {
	w, err := h.Svc.RemoveCollaborator(c.Request.Context(), actor(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, w, "collaborator removed", nil)
}
