package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-tracker/internal/middleware"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

// classIDParam reads the :classId path segment.
func classIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("classId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return id, nil
}

// identityName resolves the display identity from the path, then the given
// fallback, then the session identity.
func identityName(c *gin.Context, fallback string) string {
	if name := c.Param("identity"); name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	if identity := middleware.IdentityFromContext(c); identity != nil {
		return identity.Username
	}
	return ""
}
