package v1

import (
	"github.com/gin-gonic/gin"

	"domus/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler is the handler surface shared by catalog entities.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes wires the standard CRUD routes for a catalog
// entity. Reads require "<resource>:read", mutations "<resource>:write".
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, resource string) {
	group.GET("", middleware.RequirePermission(resource+":read"), handler.List)
	group.POST("", middleware.RequirePermission(resource+":write"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(resource+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(resource+":write"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(resource+":write"), handler.Delete)
}
