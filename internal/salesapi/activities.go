package salesapi

import (
	"context"
	"fmt"
)

// CreateActivityParams is the payload for creating an activity update.
type CreateActivityParams struct {
	SalesLead      int64  `json:"sales_lead"`
	UpdateType     string `json:"update_type"`
	Title          string `json:"title"`
	Info           string `json:"info"`
	EventDate      string `json:"event_date,omitempty"`
	ActivityStatus int64  `json:"activity_status,omitempty"`
}

// CreateActivity creates a new activity update on a lead.
func (c *Client) CreateActivity(ctx context.Context, params CreateActivityParams) (ActivityUpdate, error) {
	var activity ActivityUpdate
	if err := c.post(ctx, "/sales/sales-lead-updates/", params, &activity); err != nil {
		return ActivityUpdate{}, err
	}
	return activity, nil
}

// ChangeActivityStatusParams is the payload for an audited status change.
type ChangeActivityStatusParams struct {
	NewStatus int64  `json:"new_status"`
	Comment   string `json:"comment"`
}

// ChangeActivityStatus transitions an activity's status. The backend appends
// the history entry and returns the updated activity.
func (c *Client) ChangeActivityStatus(ctx context.Context, activityID int64, params ChangeActivityStatusParams) (ActivityUpdate, error) {
	var activity ActivityUpdate
	path := fmt.Sprintf("/sales/sales-lead-updates/%d/change-status/", activityID)
	if err := c.post(ctx, path, params, &activity); err != nil {
		return ActivityUpdate{}, err
	}
	return activity, nil
}
