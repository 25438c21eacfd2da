// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"dormdesk/internal/infrastructure/http/v1/middleware"
)

// ListRouteHandler is a read-only collection handler.
type ListRouteHandler interface {
	List(c *gin.Context)
}

// RegisterListRoute registers GET on group for a read-only collection. When
// roles are given the caller must hold one of them.
//
// Usage:
//
//	handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*product.Product]{...})
//	RegisterListRoute(protected.Group("/products"), handler)
func RegisterListRoute(group *gin.RouterGroup, handler ListRouteHandler, roles ...string) {
	if len(roles) > 0 {
		group.GET("", middleware.RequireRole(roles...), handler.List)
		return
	}
	group.GET("", handler.List)
}
