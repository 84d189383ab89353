package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// GenerationRecord is the durable, server-stored description of one
// completed generation call. IDs may exceed float64 precision so they
// travel as json.Number.
type GenerationRecord struct {
	ID              json.Number    `json:"id,omitempty"`
	ProjectCategory string         `json:"project_category"`
	Prompt          string         `json:"prompt"`
	Params          map[string]any `json:"params"`
	ImageURLs       []string       `json:"image_urls"`
	SourceConfigID  string         `json:"source_config_id"`
	IsPublic        bool           `json:"is_public"`
	PointsUsed      int64          `json:"points_used"`
	CreatedAt       string         `json:"created_at,omitempty"`
}

type CategoryInfo struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type historyResponse struct {
	Results      []GenerationRecord `json:"results"`
	CategoryInfo *CategoryInfo      `json:"category_info"`
}

// CreateRecord persists a generation record on the remote store and
// returns the created record.
func (c *Client) CreateRecord(ctx context.Context, rec *GenerationRecord, headers map[string]string) (*GenerationRecord, error) {
	var created GenerationRecord
	url := c.AdminURL + "/api/auth/generations/create/"
	if err := c.doJSON(ctx, http.MethodPost, url, headers, rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRecords fetches the record history for one category.
func (c *Client) ListRecords(ctx context.Context, categoryID string, headers map[string]string) ([]GenerationRecord, *CategoryInfo, error) {
	var resp historyResponse
	url := c.AdminURL + "/api/auth/generations/category/" + categoryID + "/"
	if err := c.doJSON(ctx, http.MethodGet, url, headers, nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Results, resp.CategoryInfo, nil
}

// DeleteRecord removes one record from the remote store.
func (c *Client) DeleteRecord(ctx context.Context, id string, headers map[string]string) error {
	url := c.AdminURL + "/api/auth/generations/" + id + "/"
	return c.doJSON(ctx, http.MethodDelete, url, headers, nil, nil)
}
