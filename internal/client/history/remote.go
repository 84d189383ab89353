package history

import (
	"context"

	"github.com/mkorolis/imagepoints/internal/client/api"
	"github.com/mkorolis/imagepoints/internal/client/points"
	"github.com/mkorolis/imagepoints/internal/logging"
)

// RecordAPI is the slice of the API client the remote store needs.
type RecordAPI interface {
	ListRecords(ctx context.Context, categoryID string, headers map[string]string) ([]api.GenerationRecord, *api.CategoryInfo, error)
	DeleteRecord(ctx context.Context, id string, headers map[string]string) error
}

// RemoteStore reads and prunes the server-authoritative record history
// for one project category. The server owns the data; this store never
// caches.
type RemoteStore struct {
	api        RecordAPI
	categoryID string
	log        logging.Logger
}

func NewRemoteStore(recordAPI RecordAPI, categoryID string, log logging.Logger) *RemoteStore {
	return &RemoteStore{
		api:        recordAPI,
		categoryID: categoryID,
		log:        log.With("component", "remote-history"),
	}
}

func (s *RemoteStore) List(ctx context.Context, headers map[string]string) ([]api.GenerationRecord, *api.CategoryInfo, error) {
	return s.api.ListRecords(ctx, s.categoryID, headers)
}

func (s *RemoteStore) Delete(ctx context.Context, id string, headers map[string]string) error {
	if err := s.api.DeleteRecord(ctx, id, headers); err != nil {
		return err
	}
	s.log.Info(ctx, "record deleted", "id", id)
	return nil
}

// RecordPoints returns a record's point cost, recomputing it from the
// frozen parameters when the stored value is absent.
func RecordPoints(rec *api.GenerationRecord) int64 {
	if rec.PointsUsed > 0 {
		return rec.PointsUsed
	}

	quality, _ := rec.Params["quality"].(string)
	count := len(rec.ImageURLs)
	if count == 0 {
		if n, ok := rec.Params["n"].(float64); ok {
			count = int(n)
		}
	}
	return points.RequiredPoints(quality, count)
}
