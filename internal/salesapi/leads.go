package salesapi

import (
	"context"
	"fmt"
)

// GetLead fetches the full lead aggregate: identity, project stage
// configuration, stage history, activity updates and interested units.
func (c *Client) GetLead(ctx context.Context, leadID int64) (Lead, error) {
	var lead Lead
	path := fmt.Sprintf("/sales/sales-leads/%d/?include_all_stage=true", leadID)
	if err := c.get(ctx, path, &lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// CreateStageEntryParams is the payload for appending a stage history entry.
type CreateStageEntryParams struct {
	SalesLead int64  `json:"sales_lead"`
	Stage     int64  `json:"stage"`
	Status    string `json:"status"`
	SubStatus string `json:"sub_status"`
	EventDate string `json:"event_date"`
	Notes     string `json:"notes"`
}

// CreateStageEntry appends one StageHistoryEntry. The backend assigns the
// id and timestamp; prior entries are never touched.
func (c *Client) CreateStageEntry(ctx context.Context, params CreateStageEntryParams) (StageHistoryEntry, error) {
	var entry StageHistoryEntry
	if err := c.post(ctx, "/sales/sales-lead-stages/", params, &entry); err != nil {
		return StageHistoryEntry{}, err
	}
	return entry, nil
}
