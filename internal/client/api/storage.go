package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
)

type uploadRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

type deleteImagesRequest struct {
	Filenames []string `json:"filenames"`
}

// UploadImage pushes one artifact to blob storage as base64 JSON and
// returns the public URL. The storage endpoint is unauthenticated.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	req := uploadRequest{
		FileName:    filename,
		FileContent: base64.StdEncoding.EncodeToString(data),
	}
	var resp uploadResponse
	if err := c.doJSON(ctx, http.MethodPost, c.StorageURL, nil, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.URL == "" {
		if resp.Message != "" {
			return "", fmt.Errorf("upload rejected: %s", resp.Message)
		}
		return "", fmt.Errorf("upload rejected for %s", filename)
	}
	return resp.URL, nil
}

// DeleteImages removes filesystem-backed legacy images by filename.
func (c *Client) DeleteImages(ctx context.Context, filenames []string) error {
	url := c.ImagesURL + "/api/image-delete"
	return c.doJSON(ctx, http.MethodPost, url, nil, deleteImagesRequest{Filenames: filenames}, nil)
}

// FetchImage retrieves the raw bytes of a filesystem-backed legacy image.
func (c *Client) FetchImage(ctx context.Context, filename string) ([]byte, error) {
	url := c.ImagesURL + "/api/image/" + filename
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, data)
	}
	return data, nil
}
