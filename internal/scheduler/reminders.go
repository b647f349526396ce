package scheduler

import (
	"context"
	"time"

	"estateportal_backend/internal/events"
	"estateportal_backend/platform/localtime"
	"estateportal_backend/platform/logger"
)

// ReminderEnqueuer subscribes to visit events and schedules a reminder
// ahead of each visit. Visits already inside the reminder window get no
// reminder. Enqueue failures are logged; the visit stands regardless.
type ReminderEnqueuer struct {
	scheduler ReminderScheduler
	lead      time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// NewReminderEnqueuer creates the enqueuer and subscribes it to the bus.
func NewReminderEnqueuer(scheduler ReminderScheduler, lead time.Duration, bus events.Bus, log *logger.Logger) *ReminderEnqueuer {
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	e := &ReminderEnqueuer{scheduler: scheduler, lead: lead, log: log, now: time.Now}

	bus.Subscribe(events.SiteVisitScheduled{}.EventName(), events.HandlerFunc(e.onScheduled))
	bus.Subscribe(events.SiteVisitRescheduled{}.EventName(), events.HandlerFunc(e.onRescheduled))
	return e
}

func (e *ReminderEnqueuer) onScheduled(ctx context.Context, event events.Event) error {
	evt, ok := event.(events.SiteVisitScheduled)
	if !ok {
		return nil
	}
	e.enqueue(ctx, evt.LeadID, evt.VisitID, evt.ScheduledAt)
	return nil
}

func (e *ReminderEnqueuer) onRescheduled(ctx context.Context, event events.Event) error {
	evt, ok := event.(events.SiteVisitRescheduled)
	if !ok {
		return nil
	}
	// The old task stays queued; its pinned time no longer matches, so the
	// worker drops it.
	e.enqueue(ctx, evt.LeadID, evt.VisitID, evt.NewTime)
	return nil
}

func (e *ReminderEnqueuer) enqueue(ctx context.Context, leadID, visitID int64, visitAt time.Time) {
	runAt := visitAt.Add(-e.lead)
	if !runAt.After(e.now()) {
		e.log.Info("visit inside reminder window, no reminder enqueued",
			"leadId", leadID, "visitId", visitID)
		return
	}

	payload := VisitReminderPayload{
		LeadID:      leadID,
		VisitID:     visitID,
		ScheduledAt: localtime.FormatLocal(visitAt) + localtime.Offset,
	}
	if err := e.scheduler.ScheduleVisitReminder(ctx, payload, runAt); err != nil {
		e.log.Error("failed to enqueue visit reminder", "error", err,
			"leadId", leadID, "visitId", visitID)
	}
}
