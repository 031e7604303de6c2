package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wishwell/wishwell-server/internal/application"
	"github.com/wishwell/wishwell-server/internal/interface/middleware"
	"github.com/wishwell/wishwell-server/pkg/response"
	"github.com/wishwell/wishwell-server/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Age      *int   `json:"age" binding:"omitempty,gte=0"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	token, exp, err := h.Svc.IssueToken(u)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  profileJSON(u),
	}, "registered", gin.H{"token_expires_at": exp})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  profileJSON(u),
	}, "login successful", gin.H{"token_expires_at": exp})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u), "profile", nil)
}
