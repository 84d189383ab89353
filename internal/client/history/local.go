package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mkorolis/imagepoints/internal/client/repositories/blobs"
	"github.com/mkorolis/imagepoints/internal/client/repositories/settings"
	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/mkorolis/imagepoints/internal/dbx"
	"github.com/mkorolis/imagepoints/internal/logging"
)

// ImageDeleter removes filesystem-backed legacy images on the remote side.
type ImageDeleter interface {
	DeleteImages(ctx context.Context, filenames []string) error
}

// LegacyStore manages the legacy local history list: metadata as one JSON
// array in the settings store, image bytes either in the local object
// store or on the remote filesystem, per entry backend. A corrupt stored
// list is discarded and reinitialized, never fatal.
type LegacyStore struct {
	db       *sql.DB
	settings settings.Repository
	blobs    blobs.Repository
	deleter  ImageDeleter
	cache    *BlobCache
	imageURL func(filename string) string
	log      logging.Logger
}

func NewLegacyStore(db *sql.DB, st settings.Repository, bl blobs.Repository,
	deleter ImageDeleter, cache *BlobCache, imageURL func(string) string,
	log logging.Logger) *LegacyStore {
	return &LegacyStore{
		db:       db,
		settings: st,
		blobs:    bl,
		deleter:  deleter,
		cache:    cache,
		imageURL: imageURL,
		log:      log.With("component", "legacy-history"),
	}
}

// List returns the stored entries newest first. A list that fails to
// decode is dropped from storage and an empty list returned.
func (s *LegacyStore) List(ctx context.Context) ([]LegacyEntry, error) {
	entries, err := s.load(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries, nil
}

func (s *LegacyStore) load(ctx context.Context, st settings.Repository) ([]LegacyEntry, error) {
	raw, err := st.Get(ctx, common.SettingLegacyHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var entries []LegacyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn(ctx, "discarding corrupt history list", "error", err)
		if derr := st.Delete(ctx, common.SettingLegacyHistory); derr != nil {
			return nil, fmt.Errorf("resetting corrupt history: %w", derr)
		}
		return nil, nil
	}
	return entries, nil
}

func (s *LegacyStore) save(ctx context.Context, st settings.Repository, entries []LegacyEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return st.Set(ctx, common.SettingLegacyHistory, data)
}

// Append prepends a new entry to the stored list.
func (s *LegacyStore) Append(ctx context.Context, entry *LegacyEntry) error {
	entries, err := s.load(ctx, s.settings)
	if err != nil {
		return err
	}
	entries = append([]LegacyEntry{*entry}, entries...)
	return s.save(ctx, s.settings, entries)
}

// Delete removes the entry with the given timestamp along with its image
// bytes. Object-store entries drop their blobs in the same transaction as
// the metadata update; filesystem entries update metadata first and then
// call the remote delete, reporting a failure there without restoring the
// entry.
func (s *LegacyStore) Delete(ctx context.Context, timestamp int64) error {
	var removed *LegacyEntry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		st := settings.NewSQLiteRepository(tx)
		entries, err := s.load(ctx, st)
		if err != nil {
			return err
		}

		kept := entries[:0]
		for i := range entries {
			if entries[i].Timestamp == timestamp {
				e := entries[i]
				removed = &e
				continue
			}
			kept = append(kept, entries[i])
		}
		if removed == nil {
			return fmt.Errorf("history entry %d: %w", timestamp, common.ErrorNotFound)
		}
		if err := s.save(ctx, st, kept); err != nil {
			return err
		}

		if removed.Backend == BackendObjectStore && len(removed.Filenames) > 0 {
			bl := blobs.NewSQLiteRepository(tx)
			if _, err := bl.Delete(ctx, removed.Filenames...); err != nil {
				return fmt.Errorf("deleting blobs: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, fn := range removed.Filenames {
		s.cache.Remove(fn)
	}

	if removed.Backend == BackendFilesystem && len(removed.Filenames) > 0 {
		if err := s.deleter.DeleteImages(ctx, removed.Filenames); err != nil {
			return fmt.Errorf("entry removed but remote images remain: %w", err)
		}
	}
	return nil
}

// Clear removes every entry, every locally stored blob and all remote
// filesystem images referenced by the list.
func (s *LegacyStore) Clear(ctx context.Context) error {
	entries, err := s.load(ctx, s.settings)
	if err != nil {
		return err
	}

	var remote []string
	for _, e := range entries {
		if e.Backend == BackendFilesystem {
			remote = append(remote, e.Filenames...)
		}
		for _, fn := range e.Filenames {
			s.cache.Remove(fn)
		}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := settings.NewSQLiteRepository(tx).Delete(ctx, common.SettingLegacyHistory); err != nil {
			return err
		}
		return blobs.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return err
	}

	if len(remote) > 0 {
		if err := s.deleter.DeleteImages(ctx, remote); err != nil {
			return fmt.Errorf("history cleared but remote images remain: %w", err)
		}
	}
	return nil
}

// Resolve returns display locations for an entry's images: temp-file
// paths from the blob cache for object-store entries, retrieval URLs for
// filesystem entries. Callers must Release acquired object-store handles.
func (s *LegacyStore) Resolve(ctx context.Context, entry *LegacyEntry) ([]string, error) {
	out := make([]string, 0, len(entry.Filenames))
	if entry.Backend == BackendObjectStore {
		for _, fn := range entry.Filenames {
			path, err := s.cache.Acquire(ctx, fn)
			if err != nil {
				for _, prev := range entry.Filenames[:len(out)] {
					s.cache.Release(prev)
				}
				return nil, fmt.Errorf("resolving %s: %w", fn, err)
			}
			out = append(out, path)
		}
		return out, nil
	}

	for _, fn := range entry.Filenames {
		out = append(out, s.imageURL(fn))
	}
	return out, nil
}

// ReleaseEntry drops the display handles acquired by Resolve for an
// object-store entry.
func (s *LegacyStore) ReleaseEntry(entry *LegacyEntry) {
	if entry.Backend != BackendObjectStore {
		return
	}
	for _, fn := range entry.Filenames {
		s.cache.Release(fn)
	}
}

// SkipDeleteConfirm reports the persisted "skip delete confirmation"
// preference, defaulting to false.
func (s *LegacyStore) SkipDeleteConfirm(ctx context.Context) (bool, error) {
	raw, err := s.settings.Get(ctx, common.SettingSkipDeleteConfirm)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}

	var skip bool
	if err := json.Unmarshal(raw, &skip); err != nil {
		return false, nil
	}
	return skip, nil
}

// SetSkipDeleteConfirm persists the preference.
func (s *LegacyStore) SetSkipDeleteConfirm(ctx context.Context, skip bool) error {
	data, err := json.Marshal(skip)
	if err != nil {
		return err
	}
	return s.settings.Set(ctx, common.SettingSkipDeleteConfirm, data)
}
