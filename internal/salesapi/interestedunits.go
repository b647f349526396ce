package salesapi

import (
	"context"
	"fmt"
)

// ListInterestedUnits returns the lead's interested units. The invariant is
// at most one, but the endpoint is a list; callers treat extras as the
// backend's problem and read the first entry.
func (c *Client) ListInterestedUnits(ctx context.Context, leadID int64) ([]InterestedUnit, error) {
	var units []InterestedUnit
	path := fmt.Sprintf("/sales/interested-units/?sales_lead=%d", leadID)
	if err := c.get(ctx, path, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// CreateInterestedUnitParams is the payload for marking a unit of interest.
type CreateInterestedUnitParams struct {
	SalesLead int64 `json:"sales_lead"`
	Unit      int64 `json:"unit"`
}

// CreateInterestedUnit marks a unit as the lead's unit of interest.
func (c *Client) CreateInterestedUnit(ctx context.Context, params CreateInterestedUnitParams) (InterestedUnit, error) {
	var unit InterestedUnit
	if err := c.post(ctx, "/sales/interested-units/", params, &unit); err != nil {
		return InterestedUnit{}, err
	}
	return unit, nil
}

// DeleteInterestedUnit retires an interested unit record.
func (c *Client) DeleteInterestedUnit(ctx context.Context, interestedUnitID int64) error {
	return c.delete(ctx, fmt.Sprintf("/sales/interested-units/%d/", interestedUnitID))
}
