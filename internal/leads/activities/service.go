// Package activities handles follow-up updates on leads: creating them and
// moving them through their status lifecycle. Every status change carries a
// mandatory comment and lands in the append-only status history.
package activities

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
type Gateway interface {
	GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error)
	CreateActivity(ctx context.Context, params salesapi.CreateActivityParams) (salesapi.ActivityUpdate, error)
	ChangeActivityStatus(ctx context.Context, activityID int64, params salesapi.ChangeActivityStatusParams) (salesapi.ActivityUpdate, error)
}

// Service handles activity operations.
type Service struct {
	gw  Gateway
	bus events.Bus
}

// New creates a new activity service.
func New(gw Gateway, bus events.Bus) *Service {
	return &Service{gw: gw, bus: bus}
}

// Create records a new follow-up on a lead. Closed leads reject new
// activity just like they reject stage changes.
func (s *Service) Create(ctx context.Context, leadID int64, req transport.CreateActivityRequest) (transport.ActivityResponse, error) {
	lead, err := s.gw.GetLead(ctx, leadID)
	if err != nil {
		return transport.ActivityResponse{}, err
	}
	if reason := leadLockReason(lead); reason != "" {
		return transport.ActivityResponse{}, apperr.Validation(reason)
	}

	activity, err := s.gw.CreateActivity(ctx, salesapi.CreateActivityParams{
		SalesLead:      lead.ID,
		UpdateType:     req.UpdateType,
		Title:          req.Title,
		Info:           req.Info,
		EventDate:      strings.TrimSpace(req.EventDate),
		ActivityStatus: req.StatusID,
	})
	if err != nil {
		return transport.ActivityResponse{}, err
	}

	return transport.ToActivityResponse(activity, lead.StatusCatalog()), nil
}

// ChangeStatus transitions an activity's status with a mandatory comment.
// The backend appends the history entry; the response carries the activity
// with its label re-resolved.
func (s *Service) ChangeStatus(ctx context.Context, leadID, activityID int64, req transport.ChangeActivityStatusRequest) (transport.ActivityResponse, error) {
	if strings.TrimSpace(req.Comment) == "" {
		return transport.ActivityResponse{}, apperr.Validation("a comment is required for every status change")
	}

	lead, err := s.gw.GetLead(ctx, leadID)
	if err != nil {
		return transport.ActivityResponse{}, err
	}
	if reason := leadLockReason(lead); reason != "" {
		return transport.ActivityResponse{}, apperr.Validation(reason)
	}

	var current salesapi.ActivityUpdate
	found := false
	for _, a := range lead.Updates {
		if a.ID == activityID {
			current, found = a, true
			break
		}
	}
	if !found {
		return transport.ActivityResponse{}, apperr.NotFound("activity not found on this lead")
	}

	catalog := lead.StatusCatalog()
	oldLabel := domain.ResolveStatusLabel(current.ToDomain(), catalog)

	updated, err := s.gw.ChangeActivityStatus(ctx, activityID, salesapi.ChangeActivityStatusParams{
		NewStatus: req.StatusID,
		Comment:   req.Comment,
	})
	if err != nil {
		return transport.ActivityResponse{}, err
	}

	resp := transport.ToActivityResponse(updated, catalog)

	s.bus.Publish(ctx, events.ActivityStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		EventID:    uuid.New(),
		LeadID:     lead.ID,
		ActivityID: activityID,
		OldStatus:  oldLabel,
		NewStatus:  resp.StatusLabel,
		Comment:    req.Comment,
	})

	return resp, nil
}

// leadLockReason returns a non-empty reason when the lead's resolved stage
// carries a terminal system key.
func leadLockReason(lead salesapi.Lead) string {
	current, ok := domain.ResolveCurrentStage(lead.DomainStages(), lead.DomainHistory())
	if !ok {
		return ""
	}
	if domain.IsTerminalKey(current.SystemKey) {
		return "lead is closed (" + string(current.SystemKey) + "); activity changes are not allowed"
	}
	return ""
}
