package scheduler

import (
	"context"
	"testing"
	"time"

	"estateportal_backend/internal/events"
	"estateportal_backend/platform/localtime"
	"estateportal_backend/platform/logger"
)

type fakeScheduler struct {
	payloads []VisitReminderPayload
	runAts   []time.Time
	err      error
}

func (f *fakeScheduler) ScheduleVisitReminder(_ context.Context, payload VisitReminderPayload, runAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	f.runAts = append(f.runAts, runAt)
	return nil
}

func newEnqueuer(t *testing.T, sched ReminderScheduler, now time.Time) (*ReminderEnqueuer, events.Bus) {
	t.Helper()
	bus := events.NewInMemoryBus(logger.New("test"))
	e := NewReminderEnqueuer(sched, 24*time.Hour, bus, logger.New("test"))
	e.now = func() time.Time { return now }
	return e, bus
}

func TestReminderEnqueuedAheadOfVisit(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, localtime.Zone)
	visitAt := now.Add(72 * time.Hour)

	sched := &fakeScheduler{}
	_, bus := newEnqueuer(t, sched, now)

	err := bus.PublishSync(context.Background(), events.SiteVisitScheduled{
		LeadID:      42,
		VisitID:     7,
		ScheduledAt: visitAt,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sched.payloads) != 1 {
		t.Fatalf("expected 1 enqueue, got %d", len(sched.payloads))
	}
	if got := sched.payloads[0]; got.LeadID != 42 || got.VisitID != 7 {
		t.Errorf("unexpected payload %+v", got)
	}
	wantPinned := localtime.FormatLocal(visitAt) + localtime.Offset
	if sched.payloads[0].ScheduledAt != wantPinned {
		t.Errorf("pinned time = %q, want %q", sched.payloads[0].ScheduledAt, wantPinned)
	}
	wantRunAt := visitAt.Add(-24 * time.Hour)
	if !sched.runAts[0].Equal(wantRunAt) {
		t.Errorf("runAt = %v, want %v", sched.runAts[0], wantRunAt)
	}
}

func TestNoReminderInsideWindow(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, localtime.Zone)

	sched := &fakeScheduler{}
	_, bus := newEnqueuer(t, sched, now)

	for _, visitAt := range []time.Time{
		now.Add(6 * time.Hour),
		now.Add(-2 * time.Hour),
		now.Add(24 * time.Hour),
	} {
		err := bus.PublishSync(context.Background(), events.SiteVisitScheduled{
			LeadID:      1,
			VisitID:     2,
			ScheduledAt: visitAt,
		})
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	if len(sched.payloads) != 0 {
		t.Fatalf("expected no enqueues, got %d", len(sched.payloads))
	}
}

func TestRescheduleEnqueuesNewPinnedTime(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, localtime.Zone)
	oldAt := now.Add(48 * time.Hour)
	newAt := now.Add(96 * time.Hour)

	sched := &fakeScheduler{}
	_, bus := newEnqueuer(t, sched, now)

	err := bus.PublishSync(context.Background(), events.SiteVisitRescheduled{
		LeadID:  42,
		VisitID: 7,
		OldTime: oldAt,
		NewTime: newAt,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(sched.payloads) != 1 {
		t.Fatalf("expected 1 enqueue, got %d", len(sched.payloads))
	}
	wantPinned := localtime.FormatLocal(newAt) + localtime.Offset
	if sched.payloads[0].ScheduledAt != wantPinned {
		t.Errorf("pinned time = %q, want %q", sched.payloads[0].ScheduledAt, wantPinned)
	}
}

func TestEnqueueFailureDoesNotPropagate(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, localtime.Zone)

	sched := &fakeScheduler{err: context.DeadlineExceeded}
	_, bus := newEnqueuer(t, sched, now)

	err := bus.PublishSync(context.Background(), events.SiteVisitScheduled{
		LeadID:      1,
		VisitID:     2,
		ScheduledAt: now.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("enqueue failure should be swallowed, got %v", err)
	}
}
