// Package history reconciles the two journals of past generations: the
// server-authoritative record store and the legacy client-side list kept
// for backward compatibility. Legacy entries carry a backend discriminator
// that routes byte-level operations either to the local object store or
// to the remote filesystem endpoints.
package history

import (
	"github.com/mkorolis/imagepoints/internal/client/points"
)

// Legacy entry backends.
const (
	BackendFilesystem  = "filesystem"
	BackendObjectStore = "objectstore"
)

// CostDetails freezes the pricing inputs of one legacy generation.
type CostDetails struct {
	Quality        string `json:"quality"`
	PointsPerImage int64  `json:"points_per_image"`
	ImageCount     int    `json:"image_count"`
}

// LegacyEntry is one line of the legacy local history list. The list is
// append-only and displayed newest first; Timestamp (unix milliseconds)
// identifies an entry for deletion.
type LegacyEntry struct {
	Timestamp   int64          `json:"timestamp"`
	Filenames   []string       `json:"filenames"`
	Backend     string         `json:"backend"`
	DurationMs  int64          `json:"duration_ms"`
	Params      map[string]any `json:"params"`
	CostDetails *CostDetails   `json:"cost_details,omitempty"`
	PointsUsed  int64          `json:"points_used"`
}

// Points returns the entry's point cost, recomputing it from the frozen
// parameters when the stored value is absent (older entries predate the
// points_used field).
func (e *LegacyEntry) Points() int64 {
	if e.PointsUsed > 0 {
		return e.PointsUsed
	}
	quality, _ := e.Params["quality"].(string)
	count := len(e.Filenames)
	return points.RequiredPoints(quality, count)
}
