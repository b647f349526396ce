package leads

import (
	apphttp "estateportal_backend/internal/http"
	"estateportal_backend/internal/inventory"
	"estateportal_backend/internal/leads/activities"
	"estateportal_backend/internal/leads/interest"
	"estateportal_backend/internal/leads/progression"
	"estateportal_backend/internal/leads/scheduling"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/events"
	"estateportal_backend/platform/logger"
	"estateportal_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler      *Handler
	orchestrator *Orchestrator
}

// NewModule creates and wires the leads module. The inventory service is
// shared with the inventory module; the sales client is owned here.
func NewModule(cfg config.SalesAPIConfig, invSvc *inventory.Service, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	client := salesapi.New(cfg, log)

	progSvc := progression.New(client, bus)
	actSvc := activities.New(client, bus)
	schedSvc := scheduling.New(client, invSvc, bus)
	interSvc := interest.New(client, invSvc, bus)

	orch := NewOrchestrator(client, progSvc, actSvc, schedSvc, interSvc, log)

	return &Module{
		handler:      NewHandler(orch, val),
		orchestrator: orch,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Orchestrator returns the facade, for wiring outside HTTP.
func (m *Module) Orchestrator() *Orchestrator {
	return m.orchestrator
}

// RegisterRoutes mounts lead routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
