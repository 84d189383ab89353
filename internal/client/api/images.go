package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// MaxEditImages caps the number of source images accepted by edit mode.
const MaxEditImages = 10

// FileAttachment is a named binary payload sent with an edit request.
type FileAttachment struct {
	Filename string
	Data     []byte
}

// ImageRequest describes one generation or edit call. Immutable once
// submitted.
type ImageRequest struct {
	Mode              string // "generate" or "edit"
	Prompt            string
	N                 int
	Size              string
	Quality           string
	OutputFormat      string
	OutputCompression *int
	Background        string
	Moderation        string
	SourceImages      []FileAttachment
	Mask              *FileAttachment
}

type GeneratedImage struct {
	Filename     string `json:"filename"`
	B64JSON      string `json:"b64_json"`
	OutputFormat string `json:"output_format"`
}

type Usage struct {
	TotalTokens  int64 `json:"total_tokens"`
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

type GenerateResult struct {
	Images []GeneratedImage `json:"images"`
	Usage  *Usage           `json:"usage"`
}

// SubmitGeneration POSTs the multipart generation request. Source images
// beyond MaxEditImages are not sent. output_compression is only forwarded
// for formats that support it (jpeg, webp).
func (c *Client) SubmitGeneration(ctx context.Context, req *ImageRequest, headers map[string]string) (*GenerateResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := writeGenerationForm(w, req); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing form: %w", err)
	}

	url := c.ImagesURL + "/api/images"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, data)
	}

	var result GenerateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}

func writeGenerationForm(w *multipart.Writer, req *ImageRequest) error {
	fields := map[string]string{
		"mode":          req.Mode,
		"prompt":        req.Prompt,
		"n":             strconv.Itoa(req.N),
		"size":          req.Size,
		"quality":       req.Quality,
		"output_format": req.OutputFormat,
		"background":    req.Background,
		"moderation":    req.Moderation,
	}
	if req.OutputCompression != nil && supportsCompression(req.OutputFormat) {
		fields["output_compression"] = strconv.Itoa(*req.OutputCompression)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("writing field %s: %w", name, err)
		}
	}

	sources := req.SourceImages
	if len(sources) > MaxEditImages {
		sources = sources[:MaxEditImages]
	}
	for i, img := range sources {
		part, err := w.CreateFormFile(fmt.Sprintf("image_%d", i), img.Filename)
		if err != nil {
			return fmt.Errorf("attaching image %d: %w", i, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return fmt.Errorf("attaching image %d: %w", i, err)
		}
	}

	if req.Mask != nil {
		part, err := w.CreateFormFile("mask", req.Mask.Filename)
		if err != nil {
			return fmt.Errorf("attaching mask: %w", err)
		}
		if _, err := part.Write(req.Mask.Data); err != nil {
			return fmt.Errorf("attaching mask: %w", err)
		}
	}
	return nil
}

func supportsCompression(format string) bool {
	return format == "jpeg" || format == "webp"
}
