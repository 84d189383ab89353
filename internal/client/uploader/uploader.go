// Package uploader abstracts the artifact-upload step of the generation
// pipeline. The default implementation posts to the storage service's
// JSON endpoint; an S3-compatible variant serves self-hosted deployments.
package uploader

import "context"

// Uploader pushes one artifact to blob storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte, mimeType string) (string, error)
}
