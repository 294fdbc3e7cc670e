// Package handlers contains the gin handlers for the v1 API. Handlers
// translate between DTOs and domain services; all error responses are
// rendered centrally by middleware.ErrorHandler.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/infrastructure/http/v1/dto"
)

// BaseHandler bundles the binding and error helpers every handler
// embeds.
type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds the request body, registering a validation error and
// returning false when it does not parse.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds query parameters the same way.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// ParseID parses a path parameter as an entity id.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("param", param))
		return id.Nil(), false
	}
	return parsed, true
}

// Error registers the error on the gin context and aborts; the error
// middleware turns it into the JSON response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery reads an integer query parameter, falling back to
// defaultVal when absent or malformed.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// Success responds 200 with a plain confirmation message, used by
// operations that change state but return no entity.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
