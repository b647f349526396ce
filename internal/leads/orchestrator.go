// Package leads provides the lead progression bounded context: stage
// transitions, activity tracking, site-visit lifecycle and interested-unit
// selection, orchestrated behind a single facade per lead.
package leads

import (
	"context"
	"sync"

	"estateportal_backend/internal/leads/activities"
	"estateportal_backend/internal/leads/interest"
	"estateportal_backend/internal/leads/progression"
	"estateportal_backend/internal/leads/scheduling"
	"estateportal_backend/internal/leads/transport"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/logger"
)

// LeadLoader fetches the lead aggregate from the sales backend.
type LeadLoader interface {
	GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error)
}

// Orchestrator is the facade over one lead aggregate, the only surface the
// HTTP layer talks to. It serializes mutations per lead: while one mutating
// operation is in flight the next caller gets a conflict, never a queue.
// Reads are not serialized; a generation counter guards the cached view so
// a stale in-flight fetch cannot overwrite newer state.
type Orchestrator struct {
	loader      LeadLoader
	progression *progression.Service
	activities  *activities.Service
	scheduling  *scheduling.Service
	interest    *interest.Service
	log         *logger.Logger

	mu    sync.Mutex
	leads map[int64]*leadState
}

// leadState is the per-lead runtime state.
type leadState struct {
	busy       bool
	generation uint64
	applied    uint64
	view       *transport.LeadResponse
}

// NewOrchestrator creates the facade.
func NewOrchestrator(loader LeadLoader, prog *progression.Service, act *activities.Service, sched *scheduling.Service, inter *interest.Service, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		loader:      loader,
		progression: prog,
		activities:  act,
		scheduling:  sched,
		interest:    inter,
		log:         log,
		leads:       make(map[int64]*leadState),
	}
}

func (o *Orchestrator) state(leadID int64) *leadState {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.leads[leadID]
	if !ok {
		st = &leadState{}
		o.leads[leadID] = st
	}
	return st
}

// acquire marks the lead busy. Returns a conflict when another mutation on
// the same lead is still in flight.
func (o *Orchestrator) acquire(leadID int64) (*leadState, error) {
	st := o.state(leadID)
	o.mu.Lock()
	defer o.mu.Unlock()
	if st.busy {
		return nil, apperr.Conflict("another operation on this lead is still in progress")
	}
	st.busy = true
	return st, nil
}

func (o *Orchestrator) release(st *leadState) {
	o.mu.Lock()
	st.busy = false
	o.mu.Unlock()
}

// nextGeneration reserves a fetch generation for the lead.
func (o *Orchestrator) nextGeneration(st *leadState) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	st.generation++
	return st.generation
}

// applyView installs a fetched view unless a newer fetch already landed.
// Returns the view that is current after the call.
func (o *Orchestrator) applyView(st *leadState, gen uint64, view transport.LeadResponse) transport.LeadResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen < st.applied {
		// Stale response: a newer fetch finished first. Drop it.
		if st.view != nil {
			return *st.view
		}
		return view
	}
	st.applied = gen
	st.view = &view
	return view
}

// GetLead returns the orchestrated aggregate view: resolved current stage
// (lowest-order fallback), sorted history, activity labels resolved.
func (o *Orchestrator) GetLead(ctx context.Context, leadID int64) (transport.LeadResponse, error) {
	st := o.state(leadID)
	gen := o.nextGeneration(st)

	lead, err := o.loader.GetLead(ctx, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return o.applyView(st, gen, transport.ToLeadResponse(lead)), nil
}

// AdvanceStage moves the lead to a higher stage.
func (o *Orchestrator) AdvanceStage(ctx context.Context, leadID int64, req transport.AdvanceStageRequest) (transport.LeadResponse, error) {
	return o.mutate(ctx, leadID, func(ctx context.Context) error {
		_, err := o.progression.AdvanceStage(ctx, leadID, req)
		return err
	})
}

// CreateActivity records a new follow-up.
func (o *Orchestrator) CreateActivity(ctx context.Context, leadID int64, req transport.CreateActivityRequest) (transport.ActivityResponse, error) {
	var resp transport.ActivityResponse
	_, err := o.mutate(ctx, leadID, func(ctx context.Context) error {
		r, err := o.activities.Create(ctx, leadID, req)
		resp = r
		return err
	})
	return resp, err
}

// ChangeActivityStatus transitions an activity's status.
func (o *Orchestrator) ChangeActivityStatus(ctx context.Context, leadID, activityID int64, req transport.ChangeActivityStatusRequest) (transport.ActivityResponse, error) {
	var resp transport.ActivityResponse
	_, err := o.mutate(ctx, leadID, func(ctx context.Context) error {
		r, err := o.activities.ChangeStatus(ctx, leadID, activityID, req)
		resp = r
		return err
	})
	return resp, err
}

// ScheduleVisit schedules a new site visit.
func (o *Orchestrator) ScheduleVisit(ctx context.Context, leadID int64, req transport.ScheduleVisitRequest) (transport.SiteVisitResponse, error) {
	var resp transport.SiteVisitResponse
	_, err := o.mutate(ctx, leadID, func(ctx context.Context) error {
		r, err := o.scheduling.ScheduleVisit(ctx, leadID, req)
		resp = r
		return err
	})
	return resp, err
}

// RescheduleVisit moves a scheduled visit.
func (o *Orchestrator) RescheduleVisit(ctx context.Context, leadID, visitID int64, req transport.RescheduleVisitRequest) (transport.SiteVisitResponse, error) {
	var resp transport.SiteVisitResponse
	_, err := o.mutate(ctx, leadID, func(ctx context.Context) error {
		r, err := o.scheduling.Reschedule(ctx, leadID, visitID, req)
		resp = r
		return err
	})
	return resp, err
}

// SetVisitResult records the visit outcome.
func (o *Orchestrator) SetVisitResult(ctx context.Context, leadID, visitID int64, req transport.VisitResultRequest) (transport.SiteVisitResponse, error) {
	var resp transport.SiteVisitResponse
	_, err := o.mutate(ctx, leadID, func(ctx context.Context) error {
		r, err := o.scheduling.SetResult(ctx, leadID, visitID, req)
		resp = r
		return err
	})
	return resp, err
}

// SetInterestedUnit replaces the lead's unit of interest.
func (o *Orchestrator) SetInterestedUnit(ctx context.Context, leadID int64, req transport.SetInterestedUnitRequest) (transport.InterestedUnitResponse, error) {
	var resp transport.InterestedUnitResponse
	_, err := o.mutate(ctx, leadID, func(ctx context.Context) error {
		r, err := o.interest.SetInterestedUnit(ctx, leadID, req)
		resp = r
		return err
	})
	return resp, err
}

// ListVisits returns the lead's visits. Reads bypass the mutation lock.
func (o *Orchestrator) ListVisits(ctx context.Context, leadID int64) ([]transport.SiteVisitResponse, error) {
	return o.scheduling.ListByLead(ctx, leadID)
}

// GetVisitHistory returns a visit's detail and reschedule trail.
func (o *Orchestrator) GetVisitHistory(ctx context.Context, leadID, visitID int64) (transport.VisitHistoryResponse, error) {
	return o.scheduling.GetHistory(ctx, leadID, visitID)
}

// mutate runs one mutating action under the per-lead busy flag, then
// refreshes the cached aggregate view. The refreshed view wins last-writer
// by generation; a refresh failure after a successful action logs and
// returns the stale view rather than failing the mutation.
func (o *Orchestrator) mutate(ctx context.Context, leadID int64, action func(ctx context.Context) error) (transport.LeadResponse, error) {
	st, err := o.acquire(leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	defer o.release(st)

	if err := action(ctx); err != nil {
		return transport.LeadResponse{}, err
	}

	gen := o.nextGeneration(st)
	lead, err := o.loader.GetLead(ctx, leadID)
	if err != nil {
		o.log.Warn("lead refresh after mutation failed", "error", err, "leadId", leadID)
		o.mu.Lock()
		defer o.mu.Unlock()
		if st.view != nil {
			return *st.view, nil
		}
		return transport.LeadResponse{}, nil
	}

	return o.applyView(st, gen, transport.ToLeadResponse(lead)), nil
}
