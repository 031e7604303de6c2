package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
	"github.com/wishwell/wishwell-server/pkg/apperror"
	"github.com/wishwell/wishwell-server/pkg/response"
)

// respondErr maps a service error to exactly one HTTP response. Anything
// outside the taxonomy is logged and returned as a generic 500.
func respondErr(c *gin.Context, logger *logrus.Logger, err error) {
	if ae, ok := apperror.As(err); ok {
		if ae.Type == apperror.Internal && logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("internal error")
		}
		response.Error[any](c, ae.StatusCode(), ae.Message, nil)
		return
	}
	if logger != nil {
		logger.WithError(err).WithField("path", c.FullPath()).Error("unclassified error")
	}
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
}

// profileJSON serializes a user without the password hash.
func profileJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"age":        u.Age,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}
