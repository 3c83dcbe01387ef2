package response

import (
	"errors"
	"net/http"

	"anoa.com/bloggerplatform/pkg/apperror"
	"anoa.com/bloggerplatform/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	s, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetOptionalUserID returns the caller id when the request carries a valid
// identity, nil for anonymous callers.
func GetOptionalUserID(c *gin.Context) *uuid.UUID {
	userID, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &userID
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg("internal error")
	}

	msg := err.Error()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrConsistency):
			// already logged with its cause where it happened
			msg = apperror.ErrConsistency.Error()
		case code == http.StatusInternalServerError:
			msg = apperror.ErrInternal.Error()
		}
	}

	c.JSON(code, gin.H{"error": msg})
}
