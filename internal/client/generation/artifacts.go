package generation

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkorolis/imagepoints/internal/client/api"
	"github.com/mkorolis/imagepoints/internal/logging"
)

// Artifact is one materialized image: decoded bytes plus, after a
// successful upload, its public URL.
type Artifact struct {
	Filename string
	Data     []byte
	MimeType string
	URL      string
}

// MimeTypeForFormat maps a declared output format to its MIME type.
// Unknown formats are treated as PNG.
func MimeTypeForFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

func extensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "webp":
		return "webp"
	default:
		return "png"
	}
}

// materializeArtifacts decodes the base64 payloads of a submit response.
// An image that fails to decode is logged and dropped; the rest of the
// batch survives. Images without a server-assigned filename get one.
func materializeArtifacts(ctx context.Context, images []api.GeneratedImage, log logging.Logger) []Artifact {
	out := make([]Artifact, 0, len(images))
	for i, img := range images {
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			log.Warn(ctx, "dropping undecodable image", "index", i, "error", err)
			continue
		}

		filename := img.Filename
		if filename == "" {
			filename = fmt.Sprintf("%s.%s", uuid.NewString(), extensionForFormat(img.OutputFormat))
		}

		out = append(out, Artifact{
			Filename: filename,
			Data:     data,
			MimeType: MimeTypeForFormat(img.OutputFormat),
		})
	}
	return out
}
