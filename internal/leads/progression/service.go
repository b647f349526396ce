// Package progression handles stage transitions for leads.
// A transition is validated locally against the resolved current stage
// before any network call: stage order is one-way, terminal leads are
// locked, and a note is mandatory on every change.
package progression

import (
	"context"
	"strings"

	"estateportal_backend/internal/events"
	"estateportal_backend/internal/leads/domain"
	"estateportal_backend/internal/leads/transport"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/apperr"

	"github.com/google/uuid"
)

// Gateway is the consumer-driven interface onto the sales backend.
// Only what progression needs.
type Gateway interface {
	GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error)
	CreateStageEntry(ctx context.Context, params salesapi.CreateStageEntryParams) (salesapi.StageHistoryEntry, error)
}

// Service handles stage transition operations.
type Service struct {
	gw  Gateway
	bus events.Bus
}

// New creates a new stage progression service.
func New(gw Gateway, bus events.Bus) *Service {
	return &Service{gw: gw, bus: bus}
}

// AdvanceStage appends one stage history entry after the transition guard
// accepts the move. Prior entries are never touched; the current stage is
// whatever the history now resolves to.
func (s *Service) AdvanceStage(ctx context.Context, leadID int64, req transport.AdvanceStageRequest) (transport.StageHistoryEntryResponse, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return transport.StageHistoryEntryResponse{}, apperr.Validation("a note is required for every stage change")
	}

	lead, err := s.gw.GetLead(ctx, leadID)
	if err != nil {
		return transport.StageHistoryEntryResponse{}, err
	}

	stages := lead.DomainStages()
	if len(stages) == 0 {
		return transport.StageHistoryEntryResponse{}, apperr.Validation("lead's project has no stages configured")
	}

	var target domain.Stage
	found := false
	for _, st := range stages {
		if st.ID == req.StageID {
			target, found = st, true
			break
		}
	}
	if !found {
		return transport.StageHistoryEntryResponse{}, apperr.Validation("target stage is not configured on this lead's project")
	}

	current, resolved := domain.ResolveCurrentStage(stages, lead.DomainHistory())
	if !resolved {
		// Unplaced lead: treated as sitting at the lowest stage.
		current, _ = domain.LowestStage(stages)
		if target.ID == current.ID && len(lead.StageHistory) == 0 {
			// Placing a fresh lead into the entry stage is allowed.
			return s.appendEntry(ctx, lead, target, req)
		}
	}

	if reason := domain.DenyTransition(current.Order, target, current.SystemKey); reason != "" {
		return transport.StageHistoryEntryResponse{}, apperr.Validation(reason)
	}

	return s.appendEntry(ctx, lead, target, req)
}

func (s *Service) appendEntry(ctx context.Context, lead salesapi.Lead, target domain.Stage, req transport.AdvanceStageRequest) (transport.StageHistoryEntryResponse, error) {
	entry, err := s.gw.CreateStageEntry(ctx, salesapi.CreateStageEntryParams{
		SalesLead: lead.ID,
		Stage:     target.ID,
		Status:    lead.Status,
		SubStatus: lead.SubStatus,
		EventDate: strings.TrimSpace(req.EventDate),
		Notes:     req.Notes,
	})
	if err != nil {
		return transport.StageHistoryEntryResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadStageAdvanced{
		BaseEvent: events.NewBaseEvent(),
		EventID:   uuid.New(),
		LeadID:    lead.ID,
		StageID:   target.ID,
		StageName: target.Name,
		SystemKey: string(target.SystemKey),
		Notes:     req.Notes,
	})

	return transport.ToStageHistoryResponse(entry.ToDomain()), nil
}
