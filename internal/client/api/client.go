// Package api implements the fixed remote HTTP contracts the client
// consumes: points balance, generation submit, generation records, blob
// storage upload and legacy image delete. Every call takes a context and
// the auth headers prepared by the session; the package never stores
// credentials itself.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkorolis/imagepoints/internal/logging"
)

const maxResponseBytes = 10 << 20

// Client talks to the three remote services. AdminURL hosts the points
// and record endpoints, ImagesURL the generation and legacy image
// endpoints, StorageURL is the full blob-storage upload endpoint.
type Client struct {
	AdminURL   string
	ImagesURL  string
	StorageURL string

	http *http.Client
	log  logging.Logger
}

func NewClient(adminURL, imagesURL, storageURL string, log logging.Logger) *Client {
	return &Client{
		AdminURL:   strings.TrimRight(adminURL, "/"),
		ImagesURL:  strings.TrimRight(imagesURL, "/"),
		StorageURL: strings.TrimRight(storageURL, "/"),
		http:       &http.Client{Timeout: 5 * time.Minute},
		log:        log.With("component", "api"),
	}
}

// doJSON performs a JSON request/response round trip. A nil in skips the
// request body, a nil out discards the response body. Non-2xx statuses
// come back as *RequestFailedError.
func (c *Client) doJSON(ctx context.Context, method, url string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
