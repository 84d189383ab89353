package uploader

import "context"

// ImageUploadAPI is the slice of the API client this uploader needs.
type ImageUploadAPI interface {
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// APIUploader uploads through the storage service's JSON endpoint.
type APIUploader struct {
	api ImageUploadAPI
}

func NewAPIUploader(api ImageUploadAPI) *APIUploader {
	return &APIUploader{api: api}
}

func (u *APIUploader) Upload(ctx context.Context, filename string, data []byte, mimeType string) (string, error) {
	return u.api.UploadImage(ctx, filename, data)
}
