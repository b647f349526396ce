// Package scheduling handles the site-visit lifecycle: scheduling against
// live inventory availability, rescheduling with a mandatory reason, and
// recording the visit result. Visit times travel as fixed-offset local
// wall-clock strings; the offset is attached here, before transmission.
package scheduling

import (
	"context"
	"strings"

	"estateportal_backend/internal/events"
	"estateportal_backend/internal/inventory"
	"estateportal_backend/internal/leads/domain"
	"estateportal_backend/internal/leads/transport"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/localtime"
	"estateportal_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Gateway is the consumer-driven interface onto the sales backend.
type Gateway interface {
	GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error)
	ListSiteVisitsByLead(ctx context.Context, leadID int64) ([]salesapi.SiteVisit, error)
	CreateSiteVisit(ctx context.Context, params salesapi.CreateSiteVisitParams) (salesapi.SiteVisit, error)
	RescheduleSiteVisit(ctx context.Context, visitID int64, params salesapi.RescheduleSiteVisitParams) (salesapi.SiteVisit, error)
	UpdateSiteVisitStatus(ctx context.Context, visitID int64, params salesapi.UpdateSiteVisitStatusParams) (salesapi.SiteVisit, error)
	GetRescheduleHistory(ctx context.Context, visitID int64) ([]salesapi.RescheduleEntry, error)
}

// UnitResolver is what scheduling needs from the inventory catalog.
type UnitResolver interface {
	ResolveUnit(ctx context.Context, projectID, unitID int64) (inventory.Unit, error)
	EnsureSelectable(unit inventory.Unit) error
}

// Service handles visit scheduling operations.
type Service struct {
	gw    Gateway
	units UnitResolver
	bus   events.Bus
}

// New creates a new visit scheduling service.
func New(gw Gateway, units UnitResolver, bus events.Bus) *Service {
	return &Service{gw: gw, units: units, bus: bus}
}

// ScheduleVisit schedules a new site visit. Preconditions are checked
// before any write: the lead is open, the visit type and scheduled time
// parse, and the unit is currently AVAILABLE. The member mobile is
// normalized to E.164 on the way out.
func (s *Service) ScheduleVisit(ctx context.Context, leadID int64, req transport.ScheduleVisitRequest) (transport.SiteVisitResponse, error) {
	visitType, ok := domain.ParseVisitType(req.VisitType)
	if !ok {
		return transport.SiteVisitResponse{}, apperr.Validationf("unknown visit type %q", req.VisitType)
	}

	wireTime, err := localtime.EncodeSchedule(req.ScheduledAt)
	if err != nil {
		return transport.SiteVisitResponse{}, apperr.Wrap(apperr.KindValidation, "invalid scheduled time", err)
	}

	lead, err := s.gw.GetLead(ctx, leadID)
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}
	if reason := leadLockReason(lead); reason != "" {
		return transport.SiteVisitResponse{}, apperr.Validation(reason)
	}

	unit, err := s.units.ResolveUnit(ctx, lead.Project, req.UnitID)
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}
	if err := s.units.EnsureSelectable(unit); err != nil {
		return transport.SiteVisitResponse{}, err
	}

	visit, err := s.gw.CreateSiteVisit(ctx, salesapi.CreateSiteVisitParams{
		SalesLead:     lead.ID,
		InventoryUnit: unit.ID,
		VisitType:     string(visitType),
		ScheduledAt:   wireTime,
		MemberName:    req.MemberName,
		MemberMobile:  phone.NormalizeE164(req.MemberMobile),
		Notes:         req.Notes,
	})
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}

	if at, err := localtime.ParseWire(visit.ScheduledAt); err == nil {
		s.bus.Publish(ctx, events.SiteVisitScheduled{
			BaseEvent:    events.NewBaseEvent(),
			EventID:      uuid.New(),
			LeadID:       lead.ID,
			VisitID:      visit.ID,
			UnitLabel:    unit.Label,
			VisitType:    string(visitType),
			ScheduledAt:  at,
			MemberName:   visit.MemberName,
			MemberMobile: visit.MemberMobile,
			MemberEmail:  lead.Email,
		})
	}

	return transport.ToSiteVisitResponse(visit), nil
}

// Reschedule moves a scheduled visit. The new time and the reason are both
// mandatory; the prior time survives only in the reschedule history the
// backend appends.
func (s *Service) Reschedule(ctx context.Context, leadID, visitID int64, req transport.RescheduleVisitRequest) (transport.SiteVisitResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return transport.SiteVisitResponse{}, apperr.Validation("a reason is required to reschedule a visit")
	}
	wireTime, err := localtime.EncodeSchedule(req.NewScheduledAt)
	if err != nil {
		return transport.SiteVisitResponse{}, apperr.Wrap(apperr.KindValidation, "invalid scheduled time", err)
	}

	lead, err := s.gw.GetLead(ctx, leadID)
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}
	if reason := leadLockReason(lead); reason != "" {
		return transport.SiteVisitResponse{}, apperr.Validation(reason)
	}

	current, err := s.findVisit(ctx, leadID, visitID)
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}
	if status, ok := domain.ParseVisitStatus(current.Status); ok && domain.IsTerminalVisitStatus(status) {
		return transport.SiteVisitResponse{}, apperr.Validationf("visit already has a recorded result (%s)", status)
	}

	updated, err := s.gw.RescheduleSiteVisit(ctx, visitID, salesapi.RescheduleSiteVisitParams{
		NewScheduledAt: wireTime,
		Reason:         req.Reason,
	})
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}

	oldAt, oldErr := localtime.ParseWire(current.ScheduledAt)
	newAt, newErr := localtime.ParseWire(updated.ScheduledAt)
	if oldErr == nil && newErr == nil {
		s.bus.Publish(ctx, events.SiteVisitRescheduled{
			BaseEvent:  events.NewBaseEvent(),
			EventID:    uuid.New(),
			LeadID:     leadID,
			VisitID:    visitID,
			OldTime:    oldAt,
			NewTime:    newAt,
			Reason:      req.Reason,
			MemberName:  updated.MemberName,
			MemberEmail: lead.Email,
		})
	}

	return transport.ToSiteVisitResponse(updated), nil
}

// SetResult records the visit outcome. The transition machine and the
// per-result mandatory payload are enforced locally before the PATCH.
func (s *Service) SetResult(ctx context.Context, leadID, visitID int64, req transport.VisitResultRequest) (transport.SiteVisitResponse, error) {
	result, ok := domain.ParseVisitStatus(req.Result)
	if !ok || result == domain.VisitStatusScheduled {
		return transport.SiteVisitResponse{}, apperr.Validationf("unknown visit result %q", req.Result)
	}

	current, err := s.findVisit(ctx, leadID, visitID)
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}
	currentStatus, _ := domain.ParseVisitStatus(current.Status)

	payload := domain.VisitResultPayload{
		Note:            req.Note,
		CancelledReason: req.CancelledReason,
		NoShowReason:    req.NoShowReason,
	}
	if reason := domain.DenyVisitResult(currentStatus, result, payload); reason != "" {
		return transport.SiteVisitResponse{}, apperr.Validation(reason)
	}

	updated, err := s.gw.UpdateSiteVisitStatus(ctx, visitID, salesapi.UpdateSiteVisitStatusParams{
		Status:          string(result),
		CompletedNote:   req.Note,
		CancelledReason: req.CancelledReason,
		NoShowReason:    req.NoShowReason,
	})
	if err != nil {
		return transport.SiteVisitResponse{}, err
	}

	s.bus.Publish(ctx, events.SiteVisitResultRecorded{
		BaseEvent: events.NewBaseEvent(),
		EventID:   uuid.New(),
		LeadID:    leadID,
		VisitID:   visitID,
		Result:    string(result),
	})

	return transport.ToSiteVisitResponse(updated), nil
}

// ListByLead returns the lead's visits.
func (s *Service) ListByLead(ctx context.Context, leadID int64) ([]transport.SiteVisitResponse, error) {
	visits, err := s.gw.ListSiteVisitsByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return transport.ToSiteVisitResponses(visits), nil
}

// GetHistory returns the visit detail plus its reschedule trail, fetched
// concurrently. A failed trail fetch degrades to the detail with the
// historyUnavailable flag; only a failed detail fetch fails the call.
func (s *Service) GetHistory(ctx context.Context, leadID, visitID int64) (transport.VisitHistoryResponse, error) {
	var (
		visit    salesapi.SiteVisit
		trail    []salesapi.RescheduleEntry
		trailErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.findVisit(gctx, leadID, visitID)
		if err != nil {
			return err
		}
		visit = v
		return nil
	})
	g.Go(func() error {
		entries, err := s.gw.GetRescheduleHistory(gctx, visitID)
		if err != nil {
			trailErr = err
			return nil
		}
		trail = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.VisitHistoryResponse{}, err
	}

	resp := transport.VisitHistoryResponse{
		Visit:       transport.ToSiteVisitResponse(visit),
		Reschedules: make([]transport.RescheduleEntryResponse, len(trail)),
	}
	for i, e := range trail {
		resp.Reschedules[i] = transport.ToRescheduleEntryResponse(e)
	}
	if trailErr != nil {
		resp.HistoryUnavailable = true
		resp.Reschedules = nil
	}
	return resp, nil
}

func (s *Service) findVisit(ctx context.Context, leadID, visitID int64) (salesapi.SiteVisit, error) {
	visits, err := s.gw.ListSiteVisitsByLead(ctx, leadID)
	if err != nil {
		return salesapi.SiteVisit{}, err
	}
	for _, v := range visits {
		if v.ID == visitID {
			return v, nil
		}
	}
	return salesapi.SiteVisit{}, apperr.NotFound("site visit not found on this lead")
}

func leadLockReason(lead salesapi.Lead) string {
	current, ok := domain.ResolveCurrentStage(lead.DomainStages(), lead.DomainHistory())
	if !ok {
		return ""
	}
	if domain.IsTerminalKey(current.SystemKey) {
		return "lead is closed (" + string(current.SystemKey) + "); visits cannot be changed"
	}
	return ""
}
