// Package transport defines the request and response DTOs for the leads
// bounded context. Requests carry validator tags; responses are the
// already-projected view the UI renders (resolved stage, resolved status
// labels), never raw upstream records.
package transport

import "time"

// AdvanceStageRequest moves a lead to a higher pipeline stage.
// Notes are mandatory on every stage change.
type AdvanceStageRequest struct {
	StageID   int64  `json:"stageId" validate:"required,min=1"`
	Notes     string `json:"notes" validate:"required,min=1"`
	EventDate string `json:"eventDate,omitempty"`
}

// CreateActivityRequest records a new follow-up on a lead.
type CreateActivityRequest struct {
	UpdateType string `json:"updateType" validate:"required,min=1,max=50"`
	Title      string `json:"title" validate:"required,min=1,max=255"`
	Info       string `json:"info,omitempty" validate:"max=4000"`
	EventDate  string `json:"eventDate,omitempty"`
	StatusID   int64  `json:"statusId,omitempty"`
}

// ChangeActivityStatusRequest transitions an activity's status.
// The comment is mandatory; an uncommented status change is rejected
// before any network call.
type ChangeActivityStatusRequest struct {
	StatusID int64  `json:"statusId" validate:"required,min=1"`
	Comment  string `json:"comment" validate:"required,min=1"`
}

// ScheduleVisitRequest schedules a site visit to an inventory unit.
// ScheduledAt is local wall-clock time, "YYYY-MM-DDTHH:mm".
type ScheduleVisitRequest struct {
	UnitID       int64  `json:"unitId" validate:"required,min=1"`
	VisitType    string `json:"visitType" validate:"required"`
	ScheduledAt  string `json:"scheduledAt" validate:"required"`
	MemberName   string `json:"memberName" validate:"required,min=1,max=255"`
	MemberMobile string `json:"memberMobile" validate:"required,min=4,max=20"`
	Notes        string `json:"notes,omitempty" validate:"max=4000"`
}

// RescheduleVisitRequest moves a scheduled visit. Both the new time and
// the reason are mandatory.
type RescheduleVisitRequest struct {
	NewScheduledAt string `json:"newScheduledAt" validate:"required"`
	Reason         string `json:"reason" validate:"required,min=1"`
}

// VisitResultRequest records the outcome of a scheduled visit.
// The per-result mandatory field is enforced by the domain rules, not
// the validator: which field is required depends on the result.
type VisitResultRequest struct {
	Result          string `json:"result" validate:"required"`
	Note            string `json:"note,omitempty"`
	CancelledReason string `json:"cancelledReason,omitempty"`
	NoShowReason    string `json:"noShowReason,omitempty"`
}

// SetInterestedUnitRequest replaces the lead's unit of interest.
type SetInterestedUnitRequest struct {
	UnitID int64 `json:"unitId" validate:"required,min=1"`
}

// StageResponse is one configured pipeline stage.
type StageResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	SystemKey string `json:"systemKey,omitempty"`
}

// StageHistoryEntryResponse is one append-only stage placement record.
type StageHistoryEntryResponse struct {
	ID        int64      `json:"id"`
	StageID   int64      `json:"stageId"`
	StageName string     `json:"stageName"`
	EventDate *time.Time `json:"eventDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Notes     string     `json:"notes,omitempty"`
	Author    string     `json:"author,omitempty"`
}

// ActivityStatusEntryResponse is one audited activity status change.
type ActivityStatusEntryResponse struct {
	ID             int64      `json:"id"`
	OldStatusID    int64      `json:"oldStatusId"`
	NewStatusID    int64      `json:"newStatusId"`
	NewStatusLabel string     `json:"newStatusLabel,omitempty"`
	Comment        string     `json:"comment"`
	Author         string     `json:"author,omitempty"`
	EventDate      *time.Time `json:"eventDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ActivityResponse is one follow-up, with the status label already
// resolved through the fallback chain.
type ActivityResponse struct {
	ID            int64                         `json:"id"`
	UpdateType    string                        `json:"updateType"`
	Title         string                        `json:"title"`
	Info          string                        `json:"info,omitempty"`
	EventDate     *time.Time                    `json:"eventDate,omitempty"`
	StatusID      int64                         `json:"statusId"`
	StatusLabel   string                        `json:"statusLabel"`
	StatusHistory []ActivityStatusEntryResponse `json:"statusHistory,omitempty"`
}

// InterestedUnitResponse is the lead's single unit of interest.
type InterestedUnitResponse struct {
	ID        int64  `json:"id"`
	UnitID    int64  `json:"unitId"`
	UnitLabel string `json:"unitLabel,omitempty"`
}

// LeadResponse is the orchestrated aggregate view.
// CurrentStage is the projection of the stage history; when the history
// resolves to nothing the lowest-order configured stage is shown and
// StageResolved is false.
type LeadResponse struct {
	ID             int64                       `json:"id"`
	Name           string                      `json:"name"`
	Email          string                      `json:"email,omitempty"`
	Mobile         string                      `json:"mobile,omitempty"`
	ProjectID      int64                       `json:"projectId"`
	ProjectName    string                      `json:"projectName,omitempty"`
	CurrentStage   *StageResponse              `json:"currentStage,omitempty"`
	StageResolved  bool                        `json:"stageResolved"`
	Locked         bool                        `json:"locked"`
	Stages         []StageResponse             `json:"stages"`
	StageHistory   []StageHistoryEntryResponse `json:"stageHistory"`
	Activities     []ActivityResponse          `json:"activities"`
	InterestedUnit *InterestedUnitResponse     `json:"interestedUnit,omitempty"`
}

// SiteVisitResponse is one scheduled or concluded site visit.
// ScheduledAt stays a fixed-offset wall-clock string end to end.
type SiteVisitResponse struct {
	ID              int64  `json:"id"`
	LeadID          int64  `json:"leadId"`
	UnitID          int64  `json:"unitId"`
	UnitLabel       string `json:"unitLabel,omitempty"`
	VisitType       string `json:"visitType"`
	ScheduledAt     string `json:"scheduledAt"`
	MemberName      string `json:"memberName"`
	MemberMobile    string `json:"memberMobile"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status"`
	CompletedNote   string `json:"completedNote,omitempty"`
	CancelledReason string `json:"cancelledReason,omitempty"`
	NoShowReason    string `json:"noShowReason,omitempty"`
}

// RescheduleEntryResponse is one recorded move of a visit's time.
type RescheduleEntryResponse struct {
	ID             int64     `json:"id"`
	OldScheduledAt string    `json:"oldScheduledAt"`
	NewScheduledAt string    `json:"newScheduledAt"`
	Reason         string    `json:"reason"`
	Actor          string    `json:"actor,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// VisitHistoryResponse is the visit detail plus its reschedule trail.
// HistoryUnavailable is set when the trail could not be fetched; the
// detail is still returned.
type VisitHistoryResponse struct {
	Visit              SiteVisitResponse         `json:"visit"`
	Reschedules        []RescheduleEntryResponse `json:"reschedules"`
	HistoryUnavailable bool                      `json:"historyUnavailable,omitempty"`
}
