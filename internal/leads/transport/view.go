package transport

import (
	"estateportal_backend/internal/leads/domain"
	"estateportal_backend/internal/salesapi"
)

// ToStageResponse maps a configured stage.
func ToStageResponse(s domain.Stage) StageResponse {
	return StageResponse{
		ID:        s.ID,
		Name:      s.Name,
		Order:     s.Order,
		SystemKey: string(s.SystemKey),
	}
}

// ToStageHistoryResponse maps one history entry. Ordering is the caller's
// concern.
func ToStageHistoryResponse(e domain.StageHistoryEntry) StageHistoryEntryResponse {
	return StageHistoryEntryResponse{
		ID:        e.ID,
		StageID:   e.StageID,
		StageName: e.StageName,
		EventDate: e.EventDate,
		CreatedAt: e.CreatedAt,
		Notes:     e.Notes,
		Author:    e.Author,
	}
}

// ToActivityResponse maps an activity with its status label resolved
// through the fallback chain.
func ToActivityResponse(a salesapi.ActivityUpdate, catalog domain.StatusCatalog) ActivityResponse {
	activity := a.ToDomain()

	history := make([]ActivityStatusEntryResponse, len(activity.History))
	for i, e := range activity.History {
		history[i] = ActivityStatusEntryResponse{
			ID:             e.ID,
			OldStatusID:    e.OldStatusID,
			NewStatusID:    e.NewStatusID,
			NewStatusLabel: e.NewStatusLabel,
			Comment:        e.Comment,
			Author:         e.Author,
			EventDate:      e.EventDate,
			CreatedAt:      e.CreatedAt,
		}
	}

	return ActivityResponse{
		ID:            activity.ID,
		UpdateType:    activity.Type,
		Title:         activity.Title,
		Info:          activity.Info,
		EventDate:     activity.EventDate,
		StatusID:      activity.StatusID,
		StatusLabel:   domain.ResolveStatusLabel(activity, catalog),
		StatusHistory: history,
	}
}

// ToLeadResponse projects the full aggregate: current stage resolved from
// the history log, lowest-order fallback when nothing resolves, activity
// labels resolved, the single interested unit surfaced.
func ToLeadResponse(lead salesapi.Lead) LeadResponse {
	stages := lead.DomainStages()
	history := domain.SortLogDesc(lead.DomainHistory())
	catalog := lead.StatusCatalog()

	resp := LeadResponse{
		ID:           lead.ID,
		Name:         lead.Name,
		Email:        lead.Email,
		Mobile:       lead.Mobile,
		ProjectID:    lead.Project,
		ProjectName:  lead.ProjectName,
		Stages:       make([]StageResponse, len(stages)),
		StageHistory: make([]StageHistoryEntryResponse, len(history)),
		Activities:   make([]ActivityResponse, len(lead.Updates)),
	}

	for i, s := range stages {
		resp.Stages[i] = ToStageResponse(s)
	}
	for i, e := range history {
		resp.StageHistory[i] = ToStageHistoryResponse(e)
	}
	for i, a := range lead.Updates {
		resp.Activities[i] = ToActivityResponse(a, catalog)
	}

	if current, ok := domain.ResolveCurrentStage(stages, history); ok {
		sr := ToStageResponse(current)
		resp.CurrentStage = &sr
		resp.StageResolved = true
		resp.Locked = domain.IsTerminalKey(current.SystemKey)
	} else if lowest, ok := domain.LowestStage(stages); ok {
		sr := ToStageResponse(lowest)
		resp.CurrentStage = &sr
	}

	if len(lead.InterestedUnits) > 0 {
		unit := lead.InterestedUnits[0]
		resp.InterestedUnit = &InterestedUnitResponse{
			ID:        unit.ID,
			UnitID:    unit.Unit,
			UnitLabel: unit.UnitLabel,
		}
	}

	return resp
}

// ToSiteVisitResponse maps one visit record.
func ToSiteVisitResponse(v salesapi.SiteVisit) SiteVisitResponse {
	return SiteVisitResponse{
		ID:              v.ID,
		LeadID:          v.SalesLead,
		UnitID:          v.InventoryUnit,
		UnitLabel:       v.UnitLabel,
		VisitType:       v.VisitType,
		ScheduledAt:     v.ScheduledAt,
		MemberName:      v.MemberName,
		MemberMobile:    v.MemberMobile,
		Notes:           v.Notes,
		Status:          v.Status,
		CompletedNote:   v.CompletedNote,
		CancelledReason: v.CancelledReason,
		NoShowReason:    v.NoShowReason,
	}
}

// ToSiteVisitResponses maps a visit list.
func ToSiteVisitResponses(visits []salesapi.SiteVisit) []SiteVisitResponse {
	out := make([]SiteVisitResponse, len(visits))
	for i, v := range visits {
		out[i] = ToSiteVisitResponse(v)
	}
	return out
}

// ToRescheduleEntryResponse maps one reschedule trail record.
func ToRescheduleEntryResponse(e salesapi.RescheduleEntry) RescheduleEntryResponse {
	return RescheduleEntryResponse{
		ID:             e.ID,
		OldScheduledAt: e.OldScheduledAt,
		NewScheduledAt: e.NewScheduledAt,
		Reason:         e.Reason,
		Actor:          e.CreatedBy,
		CreatedAt:      e.CreatedAt.Time,
	}
}
