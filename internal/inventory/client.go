package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/logger"
)

// Client talks to the inventory service's read-only catalog endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates an inventory catalog client.
func NewClient(cfg config.InventoryConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.GetInventoryBaseURL(), "/"),
		http:    &http.Client{Timeout: cfg.GetInventoryTimeout()},
		log:     log,
	}
}

// FetchTree fetches the tower→floor→unit catalog with embedded availability.
func (c *Client) FetchTree(ctx context.Context, projectID int64) (Tree, error) {
	var tree Tree
	path := fmt.Sprintf("/client/inventory/tree/?project_id=%d", projectID)
	if err := c.get(ctx, path, &tree); err != nil {
		return Tree{}, err
	}
	return tree, nil
}

// FetchUnit resolves a single unit's inventory record. Used when the tree
// omits the unit (for example a unit attached to an old interested-unit
// record that has since left the catalog).
func (c *Client) FetchUnit(ctx context.Context, unitID int64) (Unit, error) {
	var unit Unit
	path := fmt.Sprintf("/client/inventory/by-unit/?unit_id=%d", unitID)
	if err := c.get(ctx, path, &unit); err != nil {
		return Unit{}, err
	}
	return unit, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := salesapi.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.UpstreamError(http.MethodGet, path, 0, err)
		return apperr.Upstream("inventory service unavailable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("inventory record not found")
	}
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		message := "inventory service request failed"
		var parsed struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(raw, &parsed); err == nil {
			if parsed.Detail != "" {
				message = parsed.Detail
			} else if parsed.Error != "" {
				message = parsed.Error
			}
		}
		c.log.UpstreamError(http.MethodGet, path, resp.StatusCode, fmt.Errorf("%s", message))
		return apperr.Upstream(message, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError(http.MethodGet, path, resp.StatusCode, err)
		return apperr.Upstream("inventory service returned an unreadable response", err)
	}
	return nil
}
