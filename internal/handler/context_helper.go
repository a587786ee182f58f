package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type validatable interface {
	Validate() error
}

func sessionFromContext(c *gin.Context) *models.Session {
	return middleware.SessionFromContext(c)
}

func identityFromContext(c *gin.Context) *models.Identity {
	if session := sessionFromContext(c); session != nil {
		return session.Identity
	}
	return nil
}

// bindJSON decodes and validates the body into req, writing the error response on failure.
// An empty body is accepted when optional is set.
func bindJSON(c *gin.Context, req validatable, message string, optional bool) bool {
	if err := c.ShouldBindJSON(req); err != nil && !(optional && errors.Is(err, io.EOF)) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	if err := req.Validate(); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, message+": "+err.Error()))
		return false
	}
	return true
}
