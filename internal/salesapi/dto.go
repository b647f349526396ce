package salesapi

import (
	"estateportal_backend/internal/leads/domain"
)

// Wire representations of the sales backend's resources. External data is
// converted into domain types here, at the boundary, so the rest of the
// engine never touches raw strings or ids.

// Stage is one configured pipeline stage on the lead's project.
type Stage struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	SystemKey string `json:"system_key"`
}

// ToDomain converts a wire stage.
func (s Stage) ToDomain() domain.Stage {
	return domain.Stage{
		ID:        s.ID,
		Name:      s.Name,
		Order:     s.Order,
		SystemKey: domain.SystemKey(s.SystemKey),
	}
}

// StageHistoryEntry is one append-only stage placement record.
type StageHistoryEntry struct {
	ID        int64     `json:"id"`
	Stage     int64     `json:"stage"`
	StageName string    `json:"stage_name"`
	EventDate Timestamp `json:"event_date"`
	CreatedAt Timestamp `json:"created_at"`
	Notes     string    `json:"notes"`
	CreatedBy string    `json:"created_by"`
}

// ToDomain converts a wire history entry.
func (e StageHistoryEntry) ToDomain() domain.StageHistoryEntry {
	return domain.StageHistoryEntry{
		ID:        e.ID,
		StageID:   e.Stage,
		StageName: e.StageName,
		EventDate: e.EventDate.PtrTime(),
		CreatedAt: e.CreatedAt.Time,
		Notes:     e.Notes,
		Author:    e.CreatedBy,
	}
}

// ActivityStatusEntry is one audited activity status change.
type ActivityStatusEntry struct {
	ID             int64     `json:"id"`
	OldStatus      int64     `json:"old_status"`
	NewStatus      int64     `json:"new_status"`
	NewStatusLabel string    `json:"new_status_label"`
	Comment        string    `json:"comment"`
	CreatedBy      string    `json:"created_by"`
	EventDate      Timestamp `json:"event_date"`
	CreatedAt      Timestamp `json:"created_at"`
}

func (e ActivityStatusEntry) ToDomain() domain.ActivityStatusHistoryEntry {
	return domain.ActivityStatusHistoryEntry{
		ID:             e.ID,
		OldStatusID:    e.OldStatus,
		NewStatusID:    e.NewStatus,
		NewStatusLabel: e.NewStatusLabel,
		Comment:        e.Comment,
		Author:         e.CreatedBy,
		EventDate:      e.EventDate.PtrTime(),
		CreatedAt:      e.CreatedAt.Time,
	}
}

// ActivityUpdate is one tracked follow-up on a lead.
type ActivityUpdate struct {
	ID             int64                 `json:"id"`
	UpdateType     string                `json:"update_type"`
	Title          string                `json:"title"`
	Info           string                `json:"info"`
	EventDate      Timestamp             `json:"event_date"`
	ActivityStatus int64                 `json:"activity_status"`
	StatusLabel    string                `json:"activity_status_label"`
	StatusHistory  []ActivityStatusEntry `json:"status_history"`
}

func (a ActivityUpdate) ToDomain() domain.Activity {
	history := make([]domain.ActivityStatusHistoryEntry, len(a.StatusHistory))
	for i, e := range a.StatusHistory {
		history[i] = e.ToDomain()
	}
	return domain.Activity{
		ID:          a.ID,
		Type:        a.UpdateType,
		Title:       a.Title,
		Info:        a.Info,
		EventDate:   a.EventDate.PtrTime(),
		StatusID:    a.ActivityStatus,
		StatusLabel: a.StatusLabel,
		History:     history,
	}
}

// ActivityStatusOption is one entry of the project-scoped status catalog.
type ActivityStatusOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// InterestedUnit marks the lead's single unit of interest.
type InterestedUnit struct {
	ID        int64  `json:"id"`
	SalesLead int64  `json:"sales_lead"`
	Unit      int64  `json:"unit"`
	UnitLabel string `json:"unit_label"`
}

// Lead is the full aggregate returned by the lead detail endpoint.
type Lead struct {
	ID               int64                  `json:"id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email"`
	Mobile           string                 `json:"mobile"`
	Project          int64                  `json:"project"`
	ProjectName      string                 `json:"project_name"`
	Status           string                 `json:"status"`
	SubStatus        string                 `json:"sub_status"`
	Stages           []Stage                `json:"stages"`
	StageHistory     []StageHistoryEntry    `json:"stage_history"`
	Updates          []ActivityUpdate       `json:"updates"`
	InterestedUnits  []InterestedUnit       `json:"interested_units"`
	ActivityStatuses []ActivityStatusOption `json:"activity_statuses"`
}

// DomainStages converts the project's stage configuration.
func (l Lead) DomainStages() []domain.Stage {
	stages := make([]domain.Stage, len(l.Stages))
	for i, s := range l.Stages {
		stages[i] = s.ToDomain()
	}
	return stages
}

// DomainHistory converts the stage history log.
func (l Lead) DomainHistory() []domain.StageHistoryEntry {
	history := make([]domain.StageHistoryEntry, len(l.StageHistory))
	for i, e := range l.StageHistory {
		history[i] = e.ToDomain()
	}
	return history
}

// StatusCatalog builds the project-scoped activity status lookup.
func (l Lead) StatusCatalog() domain.StatusCatalog {
	catalog := make(domain.StatusCatalog, len(l.ActivityStatuses))
	for _, opt := range l.ActivityStatuses {
		catalog[opt.ID] = opt.Label
	}
	return catalog
}

// SiteVisit is one scheduled physical visit to an inventory unit.
// Scheduled times travel as local wall-clock strings with a fixed +05:30
// offset; they are kept as strings on the wire and parsed where needed.
type SiteVisit struct {
	ID              int64     `json:"id"`
	SalesLead       int64     `json:"sales_lead"`
	InventoryUnit   int64     `json:"inventory_unit"`
	UnitLabel       string    `json:"unit_label"`
	VisitType       string    `json:"visit_type"`
	ScheduledAt     string    `json:"scheduled_at"`
	MemberName      string    `json:"member_name"`
	MemberMobile    string    `json:"member_mobile"`
	Notes           string    `json:"notes"`
	Status          string    `json:"status"`
	CompletedNote   string    `json:"completed_note"`
	CancelledReason string    `json:"cancelled_reason"`
	NoShowReason    string    `json:"no_show_reason"`
	CreatedAt       Timestamp `json:"created_at"`
}

// RescheduleEntry is one record of a visit's scheduled time being moved.
type RescheduleEntry struct {
	ID             int64     `json:"id"`
	OldScheduledAt string    `json:"old_scheduled_at"`
	NewScheduledAt string    `json:"new_scheduled_at"`
	Reason         string    `json:"reason"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      Timestamp `json:"created_at"`
}
