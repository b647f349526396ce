// Package inventory module wiring and route registration.
package inventory

import (
	"context"

	apphttp "estateportal_backend/internal/http"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/cache"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/httpkit"
	"estateportal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is the inventory catalog module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and wires the inventory module. cacheStore may be nil
// when redis is not configured.
func NewModule(cfg config.InventoryConfig, cacheStore *cache.Cache, log *logger.Logger) *Module {
	client := NewClient(cfg, log)
	svc := NewService(client, cacheStore, cfg.GetInventoryCacheTTL(), log)
	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inventory"
}

// Service returns the catalog service for use by the leads module.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts inventory routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/inventory")
	m.handler.RegisterRoutes(group)
}

// requestContext carries the caller's bearer token into upstream calls.
func requestContext(c *gin.Context) context.Context {
	return salesapi.WithToken(c.Request.Context(), httpkit.AuthToken(c))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
