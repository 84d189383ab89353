package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mkorolis/imagepoints/internal/client/points"
	"github.com/mkorolis/imagepoints/internal/common"
)

type balanceResponse struct {
	Message string          `json:"message"`
	Balance *points.Balance `json:"balance"`
}

// QueryBalance fetches the authoritative point balance. The response
// shape is validated before it is returned; a body that decodes but
// fails validation maps to common.ErrMalformedResponse.
func (c *Client) QueryBalance(ctx context.Context, headers map[string]string) (*points.Balance, error) {
	var resp balanceResponse
	url := c.AdminURL + "/api/auth/points/balance/"
	if err := c.doJSON(ctx, http.MethodGet, url, headers, nil, &resp); err != nil {
		return nil, err
	}
	if err := validateBalance(resp.Balance); err != nil {
		return nil, err
	}
	return resp.Balance, nil
}

func validateBalance(b *points.Balance) error {
	if b == nil || b.Username == "" {
		return fmt.Errorf("balance missing required fields: %w", common.ErrMalformedResponse)
	}
	if b.CurrentPoints < 0 || b.TodayUsage < 0 || b.MonthUsage < 0 {
		return fmt.Errorf("balance has negative counters: %w", common.ErrMalformedResponse)
	}
	return nil
}
