package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wishwell/wishwell-server/internal/application"
	"github.com/wishwell/wishwell-server/internal/interface/middleware"
	"github.com/wishwell/wishwell-server/pkg/response"
	"github.com/wishwell/wishwell-server/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,username"`
	Age      *int    `json:"age" binding:"omitempty,gte=0"`
}

// UpdateProfile PUT /api/auth/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Username: req.Username,
		Age:      req.Age,
	})
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(u), "profile updated", nil)
}

// UploadAvatar POST /api/auth/me/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "could not read avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size := 10
	if s := c.Query("size"); s != "" {
		if n, err := parsePositive(s); err == nil {
			size = n
		}
	}
	res, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "results", gin.H{"count": len(res)})
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}
