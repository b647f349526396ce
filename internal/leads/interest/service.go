// Package interest maintains the lead's single unit of interest. Replacing
// it is two remote operations, delete then create, with no compensation:
// a failed create after a successful delete leaves the lead without an
// interested unit until retried by the user.
package interest

import (
	"context"

	"estateportal_backend/internal/events"
	"estateportal_backend/internal/inventory"
	"estateportal_backend/internal/leads/domain"
	"estateportal_backend/internal/leads/transport"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/apperr"

	"github.com/google/uuid"
)

// Gateway is the consumer-driven interface onto the sales backend.
type Gateway interface {
	GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error)
	ListInterestedUnits(ctx context.Context, leadID int64) ([]salesapi.InterestedUnit, error)
	CreateInterestedUnit(ctx context.Context, params salesapi.CreateInterestedUnitParams) (salesapi.InterestedUnit, error)
	DeleteInterestedUnit(ctx context.Context, interestedUnitID int64) error
}

// UnitResolver is what interest needs from the inventory catalog.
type UnitResolver interface {
	ResolveUnit(ctx context.Context, projectID, unitID int64) (inventory.Unit, error)
	EnsureSelectable(unit inventory.Unit) error
}

// Service handles interested-unit operations.
type Service struct {
	gw    Gateway
	units UnitResolver
	bus   events.Bus
}

// New creates a new interested-unit service.
func New(gw Gateway, units UnitResolver, bus events.Bus) *Service {
	return &Service{gw: gw, units: units, bus: bus}
}

// SetInterestedUnit replaces the lead's unit of interest. The unit is
// availability-gated exactly like visit scheduling. Existing records are
// deleted before the new one is created.
func (s *Service) SetInterestedUnit(ctx context.Context, leadID int64, req transport.SetInterestedUnitRequest) (transport.InterestedUnitResponse, error) {
	lead, err := s.gw.GetLead(ctx, leadID)
	if err != nil {
		return transport.InterestedUnitResponse{}, err
	}
	if reason := leadLockReason(lead); reason != "" {
		return transport.InterestedUnitResponse{}, apperr.Validation(reason)
	}

	unit, err := s.units.ResolveUnit(ctx, lead.Project, req.UnitID)
	if err != nil {
		return transport.InterestedUnitResponse{}, err
	}
	if err := s.units.EnsureSelectable(unit); err != nil {
		return transport.InterestedUnitResponse{}, err
	}

	existing, err := s.gw.ListInterestedUnits(ctx, leadID)
	if err != nil {
		return transport.InterestedUnitResponse{}, err
	}

	var retired *int64
	for _, record := range existing {
		if record.Unit == unit.ID {
			// Already the unit of interest; nothing to replace.
			return transport.InterestedUnitResponse{
				ID:        record.ID,
				UnitID:    record.Unit,
				UnitLabel: record.UnitLabel,
			}, nil
		}
		if err := s.gw.DeleteInterestedUnit(ctx, record.ID); err != nil {
			return transport.InterestedUnitResponse{}, err
		}
		id := record.Unit
		retired = &id
	}

	created, err := s.gw.CreateInterestedUnit(ctx, salesapi.CreateInterestedUnitParams{
		SalesLead: leadID,
		Unit:      unit.ID,
	})
	if err != nil {
		return transport.InterestedUnitResponse{}, err
	}

	s.bus.Publish(ctx, events.InterestedUnitChanged{
		BaseEvent:     events.NewBaseEvent(),
		EventID:       uuid.New(),
		LeadID:        leadID,
		UnitID:        unit.ID,
		RetiredUnitID: retired,
	})

	return transport.InterestedUnitResponse{
		ID:        created.ID,
		UnitID:    created.Unit,
		UnitLabel: created.UnitLabel,
	}, nil
}

func leadLockReason(lead salesapi.Lead) string {
	current, ok := domain.ResolveCurrentStage(lead.DomainStages(), lead.DomainHistory())
	if !ok {
		return ""
	}
	if domain.IsTerminalKey(current.SystemKey) {
		return "lead is closed (" + string(current.SystemKey) + "); the interested unit cannot be changed"
	}
	return ""
}
