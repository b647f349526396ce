// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"estateportal_backend/platform/events"
	"estateportal_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Progression Events
// =============================================================================

// LeadStageAdvanced is published when a lead moves to a higher stage.
type LeadStageAdvanced struct {
	BaseEvent
	EventID   uuid.UUID `json:"eventId"`
	LeadID    int64     `json:"leadId"`
	StageID   int64     `json:"stageId"`
	StageName string    `json:"stageName"`
	SystemKey string    `json:"systemKey"`
	Notes     string    `json:"notes"`
}

func (e LeadStageAdvanced) EventName() string { return "leads.stage.advanced" }

// ActivityStatusChanged is published when an activity's status changes.
type ActivityStatusChanged struct {
	BaseEvent
	EventID    uuid.UUID `json:"eventId"`
	LeadID     int64     `json:"leadId"`
	ActivityID int64     `json:"activityId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
	Comment    string    `json:"comment"`
}

func (e ActivityStatusChanged) EventName() string { return "leads.activity.status_changed" }

// =============================================================================
// Site Visit Events
// =============================================================================

// SiteVisitScheduled is published when a new site visit is created.
type SiteVisitScheduled struct {
	BaseEvent
	EventID      uuid.UUID `json:"eventId"`
	LeadID       int64     `json:"leadId"`
	VisitID      int64     `json:"visitId"`
	UnitLabel    string    `json:"unitLabel"`
	VisitType    string    `json:"visitType"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	MemberName   string    `json:"memberName"`
	MemberMobile string    `json:"memberMobile"`
	MemberEmail  string    `json:"memberEmail,omitempty"`
}

func (e SiteVisitScheduled) EventName() string { return "sitevisits.scheduled" }

// SiteVisitRescheduled is published when an existing visit is moved.
type SiteVisitRescheduled struct {
	BaseEvent
	EventID     uuid.UUID `json:"eventId"`
	LeadID      int64     `json:"leadId"`
	VisitID     int64     `json:"visitId"`
	OldTime     time.Time `json:"oldTime"`
	NewTime     time.Time `json:"newTime"`
	Reason      string    `json:"reason"`
	MemberName  string    `json:"memberName"`
	MemberEmail string    `json:"memberEmail,omitempty"`
}

func (e SiteVisitRescheduled) EventName() string { return "sitevisits.rescheduled" }

// SiteVisitResultRecorded is published when a visit reaches a terminal result.
type SiteVisitResultRecorded struct {
	BaseEvent
	EventID uuid.UUID `json:"eventId"`
	LeadID  int64     `json:"leadId"`
	VisitID int64     `json:"visitId"`
	Result  string    `json:"result"`
}

func (e SiteVisitResultRecorded) EventName() string { return "sitevisits.result_recorded" }

// =============================================================================
// Interested Unit Events
// =============================================================================

// InterestedUnitChanged is published when a lead's interested unit is replaced.
type InterestedUnitChanged struct {
	BaseEvent
	EventID       uuid.UUID `json:"eventId"`
	LeadID        int64     `json:"leadId"`
	UnitID        int64     `json:"unitId"`
	RetiredUnitID *int64    `json:"retiredUnitId,omitempty"`
}

func (e InterestedUnitChanged) EventName() string { return "leads.interested_unit.changed" }
