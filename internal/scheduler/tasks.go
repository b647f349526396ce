package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskVisitReminder reminds the member ahead of a scheduled site visit.
const TaskVisitReminder = "sitevisits.reminder"

// VisitReminderPayload identifies the visit and pins the scheduled time the
// reminder was enqueued for. A reschedule enqueues a new task; the worker
// drops any task whose pinned time no longer matches the visit.
type VisitReminderPayload struct {
	LeadID      int64  `json:"leadId"`
	VisitID     int64  `json:"visitId"`
	ScheduledAt string `json:"scheduledAt"`
}

// NewVisitReminderTask builds the asynq task for a reminder.
func NewVisitReminderTask(payload VisitReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVisitReminder, data), nil
}

// ParseVisitReminderPayload decodes a reminder task.
func ParseVisitReminderPayload(task *asynq.Task) (VisitReminderPayload, error) {
	var payload VisitReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return VisitReminderPayload{}, err
	}
	return payload, nil
}
