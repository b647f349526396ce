// Package notification sends member-facing emails in response to domain
// events. Domain modules publish events and never know about email; a send
// failure is logged and never fails the originating operation.
package notification

import (
	"context"

	"estateportal_backend/internal/events"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/localtime"
	"estateportal_backend/platform/logger"
)

// Module wires the event subscriptions to the configured sender.
type Module struct {
	sender Sender
	log    *logger.Logger
}

// NewSenderFromConfig picks the configured sender; a no-op when email is
// disabled. Shared with the reminder worker, which sends outside the bus.
func NewSenderFromConfig(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NewModule creates the notification module and subscribes it to the bus.
// With email disabled it still subscribes, with a no-op sender.
func NewModule(cfg config.EmailConfig, bus events.Bus, log *logger.Logger) *Module {
	m := &Module{sender: NewSenderFromConfig(cfg), log: log}
	m.subscribe(bus)
	return m
}

func (m *Module) subscribe(bus events.Bus) {
	bus.Subscribe(events.SiteVisitScheduled{}.EventName(), events.HandlerFunc(m.onVisitScheduled))
	bus.Subscribe(events.SiteVisitRescheduled{}.EventName(), events.HandlerFunc(m.onVisitRescheduled))
}

func (m *Module) onVisitScheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.SiteVisitScheduled)
	if !ok {
		return nil
	}
	if e.MemberEmail == "" {
		return nil
	}

	err := m.sender.SendVisitScheduledEmail(ctx, e.MemberEmail, e.MemberName, e.UnitLabel, localtime.FormatLocal(e.ScheduledAt))
	if err != nil {
		m.log.Error("visit scheduled email failed", "error", err, "leadId", e.LeadID, "visitId", e.VisitID)
	}
	return nil
}

func (m *Module) onVisitRescheduled(ctx context.Context, event events.Event) error {
	e, ok := event.(events.SiteVisitRescheduled)
	if !ok {
		return nil
	}
	if e.MemberEmail == "" {
		return nil
	}

	err := m.sender.SendVisitRescheduledEmail(ctx, e.MemberEmail, e.MemberName,
		localtime.FormatLocal(e.OldTime), localtime.FormatLocal(e.NewTime), e.Reason)
	if err != nil {
		m.log.Error("visit rescheduled email failed", "error", err, "leadId", e.LeadID, "visitId", e.VisitID)
	}
	return nil
}
