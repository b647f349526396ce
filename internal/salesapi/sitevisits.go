package salesapi

import (
	"context"
	"fmt"
)

// ListSiteVisitsByLead returns all visits for a lead, newest first.
func (c *Client) ListSiteVisitsByLead(ctx context.Context, leadID int64) ([]SiteVisit, error) {
	var visits []SiteVisit
	path := fmt.Sprintf("/sales/site-visits/by-lead/%d/", leadID)
	if err := c.get(ctx, path, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// CreateSiteVisitParams is the payload for scheduling a visit.
// ScheduledAt must already carry the fixed +05:30 offset.
type CreateSiteVisitParams struct {
	SalesLead     int64  `json:"sales_lead"`
	InventoryUnit int64  `json:"inventory_unit"`
	VisitType     string `json:"visit_type"`
	ScheduledAt   string `json:"scheduled_at"`
	MemberName    string `json:"member_name"`
	MemberMobile  string `json:"member_mobile"`
	Notes         string `json:"notes,omitempty"`
}

// CreateSiteVisit schedules a new visit.
func (c *Client) CreateSiteVisit(ctx context.Context, params CreateSiteVisitParams) (SiteVisit, error) {
	var visit SiteVisit
	if err := c.post(ctx, "/sales/site-visits/", params, &visit); err != nil {
		return SiteVisit{}, err
	}
	return visit, nil
}

// RescheduleSiteVisitParams is the payload for moving a scheduled visit.
type RescheduleSiteVisitParams struct {
	NewScheduledAt string `json:"new_scheduled_at"`
	Reason         string `json:"reason"`
}

// RescheduleSiteVisit moves the visit; the backend appends the reschedule
// history entry and advances scheduled_at.
func (c *Client) RescheduleSiteVisit(ctx context.Context, visitID int64, params RescheduleSiteVisitParams) (SiteVisit, error) {
	var visit SiteVisit
	path := fmt.Sprintf("/sales/site-visits/%d/reschedule/", visitID)
	if err := c.post(ctx, path, params, &visit); err != nil {
		return SiteVisit{}, err
	}
	return visit, nil
}

// UpdateSiteVisitStatusParams is the payload for recording a visit result.
type UpdateSiteVisitStatusParams struct {
	Status          string `json:"status"`
	CompletedNote   string `json:"completed_note,omitempty"`
	CancelledReason string `json:"cancelled_reason,omitempty"`
	NoShowReason    string `json:"no_show_reason,omitempty"`
}

// UpdateSiteVisitStatus records the visit result.
func (c *Client) UpdateSiteVisitStatus(ctx context.Context, visitID int64, params UpdateSiteVisitStatusParams) (SiteVisit, error) {
	var visit SiteVisit
	path := fmt.Sprintf("/sales/site-visits/%d/update-status/", visitID)
	if err := c.patch(ctx, path, params, &visit); err != nil {
		return SiteVisit{}, err
	}
	return visit, nil
}

// GetRescheduleHistory fetches the reschedule trail for a visit.
func (c *Client) GetRescheduleHistory(ctx context.Context, visitID int64) ([]RescheduleEntry, error) {
	var entries []RescheduleEntry
	path := fmt.Sprintf("/sales/site-visits/%d/reschedule-history/", visitID)
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
