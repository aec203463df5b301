// Package tracker is the client for the external asset-tracking service
// that mirrors temporary item locations.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client posts item location updates to the asset-tracking endpoint.
// A nil Client or empty BaseURL disables reporting.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a tracker client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type itemLocationRequest struct {
	ItemID            string `json:"itemId"`
	TemporaryLocation string `json:"temporaryLocation"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ReportItemLocation reports an item's temporary location. A non-success
// response surfaces the service's own message as the error. The call is
// attempted exactly once; there are no retries.
func (c *Client) ReportItemLocation(ctx context.Context, itemID, temporaryLocation string) error {
	if c == nil || c.BaseURL == "" {
		return nil
	}

	body, err := json.Marshal(itemLocationRequest{ItemID: itemID, TemporaryLocation: temporaryLocation})
	if err != nil {
		return fmt.Errorf("encoding item location: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/asset/item-location", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building item location request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting item location: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			return fmt.Errorf("%s", errResp.Message)
		}
		return fmt.Errorf("asset tracking returned status %d", resp.StatusCode)
	}

	return nil
}
