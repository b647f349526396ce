package scheduler

import (
	"context"
	"fmt"

	"estateportal_backend/internal/leads/domain"
	"estateportal_backend/internal/notification"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/localtime"
	"estateportal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// VisitReader is what the worker needs from the sales backend.
type VisitReader interface {
	GetLead(ctx context.Context, leadID int64) (salesapi.Lead, error)
	ListSiteVisitsByLead(ctx context.Context, leadID int64) ([]salesapi.SiteVisit, error)
}

// Worker consumes reminder tasks. Before sending it re-checks the visit
// against the backend: only a still-SCHEDULED visit at the pinned time gets
// a reminder. Superseded and concluded visits are dropped silently.
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	sales        VisitReader
	sender       notification.Sender
	serviceToken string
	log          *logger.Logger
}

// NewWorker creates the reminder worker.
func NewWorker(cfg config.SchedulerConfig, sales VisitReader, sender notification.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		sales:        sales,
		sender:       sender,
		serviceToken: cfg.GetSalesAPIServiceToken(),
		log:          log,
	}
	mux.HandleFunc(TaskVisitReminder, w.handleVisitReminder)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("reminder worker stopped", "error", err)
	}
}

func (w *Worker) handleVisitReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseVisitReminderPayload(task)
	if err != nil {
		return err
	}

	ctx = salesapi.WithToken(ctx, w.serviceToken)

	visits, err := w.sales.ListSiteVisitsByLead(ctx, payload.LeadID)
	if err != nil {
		return err
	}

	var visit salesapi.SiteVisit
	found := false
	for _, v := range visits {
		if v.ID == payload.VisitID {
			visit, found = v, true
			break
		}
	}
	if !found {
		w.log.Info("reminder dropped, visit no longer exists",
			"leadId", payload.LeadID, "visitId", payload.VisitID)
		return nil
	}

	if status, ok := domain.ParseVisitStatus(visit.Status); !ok || status != domain.VisitStatusScheduled {
		w.log.Info("reminder dropped, visit no longer scheduled",
			"visitId", payload.VisitID, "status", visit.Status)
		return nil
	}
	if visit.ScheduledAt != payload.ScheduledAt {
		// A reschedule enqueued a fresh reminder for the new time.
		w.log.Info("reminder dropped, superseded by reschedule",
			"visitId", payload.VisitID)
		return nil
	}

	lead, err := w.sales.GetLead(ctx, payload.LeadID)
	if err != nil {
		return err
	}
	if lead.Email == "" {
		return nil
	}

	local := visit.ScheduledAt
	if at, err := localtime.ParseWire(visit.ScheduledAt); err == nil {
		local = localtime.FormatLocal(at)
	}

	if err := w.sender.SendVisitReminderEmail(ctx, lead.Email, visit.MemberName, visit.UnitLabel, local); err != nil {
		w.log.Error("visit reminder email failed", "error", err, "visitId", payload.VisitID)
		return err
	}

	w.log.Info("visit reminder sent", "leadId", payload.LeadID, "visitId", payload.VisitID)
	return nil
}
