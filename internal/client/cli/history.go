package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mkorolis/imagepoints/internal/client/history"
	"github.com/mkorolis/imagepoints/internal/client/points"
)

// History lists the server-side generation records for the configured
// category.
func (a *App) History(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	records, info, err := a.hist.Remote.List(ctx, a.session.AuthHeaders())
	if err != nil {
		return err
	}

	if info != nil && info.Name != "" {
		printlnFn("Category:", info.Name)
	}
	if len(records) == 0 {
		printlnFn("No records")
		return nil
	}

	for _, rec := range records {
		printlnFn(fmt.Sprintf("[%s] %s - %d image(s), %s points (%s)",
			rec.ID.String(), truncate(rec.Prompt, 60), len(rec.ImageURLs),
			points.FormatPoints(history.RecordPoints(&rec)), rec.CreatedAt))
	}
	return nil
}

// Legacy lists the local legacy history entries.
func (a *App) Legacy(ctx context.Context) error {
	entries, err := a.hist.Legacy.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No legacy entries")
		return nil
	}

	for i, e := range entries {
		when := time.UnixMilli(e.Timestamp).Local().Format(time.RFC1123)
		prompt, _ := e.Params["prompt"].(string)
		printlnFn(fmt.Sprintf("%d. %s - %s, %d image(s), %s points [%s]",
			i+1, when, truncate(prompt, 40), len(e.Filenames),
			points.FormatPoints(e.Points()), e.Backend))
	}
	return nil
}

// Select resolves one legacy entry's images to display locations (temp
// files for object-store entries, URLs for filesystem ones) and releases
// the handles when the user is done.
func (a *App) Select(ctx context.Context) error {
	entries, err := a.hist.Legacy.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No legacy entries")
		return nil
	}

	idx, err := GetInt(a.reader, fmt.Sprintf("Entry number (1-%d)", len(entries)), 1, outW)
	if err != nil {
		return err
	}
	if idx < 1 || idx > len(entries) {
		return fmt.Errorf("no such entry: %d", idx)
	}

	entry := &entries[idx-1]
	locations, err := a.hist.Legacy.Resolve(ctx, entry)
	if err != nil {
		return err
	}
	defer a.hist.Legacy.ReleaseEntry(entry)

	for _, loc := range locations {
		printlnFn(" ", loc)
	}
	_, err = GetSimpleText(a.reader, "Press Enter when done viewing", outW)
	return err
}

// DeleteEntry removes either a remote record (by id) or a legacy entry
// (by number), honoring the persisted skip-confirmation preference.
func (a *App) DeleteEntry(ctx context.Context) error {
	target, err := GetChoice(a.reader, "Delete from", []string{"remote", "legacy"}, "remote", outW)
	if err != nil {
		return err
	}

	if target == "remote" {
		if err := a.requireAuth(ctx); err != nil {
			return err
		}
		id, err := GetSimpleText(a.reader, "Record id", outW)
		if err != nil {
			return err
		}
		ok, err := a.confirmDelete(ctx, "Delete record "+id+"?")
		if err != nil || !ok {
			return err
		}
		if err := a.hist.Remote.Delete(ctx, id, a.session.AuthHeaders()); err != nil {
			return err
		}
		printlnFn("Record deleted")
		return nil
	}

	entries, err := a.hist.Legacy.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No legacy entries")
		return nil
	}
	idx, err := GetInt(a.reader, fmt.Sprintf("Entry number (1-%d)", len(entries)), 1, outW)
	if err != nil {
		return err
	}
	if idx < 1 || idx > len(entries) {
		return fmt.Errorf("no such entry: %d", idx)
	}

	entry := entries[idx-1]
	ok, err := a.confirmDelete(ctx, fmt.Sprintf("Delete entry %d (%d images)?", idx, len(entry.Filenames)))
	if err != nil || !ok {
		return err
	}
	if err := a.hist.Legacy.Delete(ctx, entry.Timestamp); err != nil {
		return err
	}
	printlnFn("Entry deleted")
	return nil
}

// ClearHistory wipes the whole legacy list and its image bytes.
func (a *App) ClearHistory(ctx context.Context) error {
	entries, err := a.hist.Legacy.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No legacy entries")
		return nil
	}

	ok, err := a.confirmDelete(ctx, fmt.Sprintf("Clear all %d legacy entries?", len(entries)))
	if err != nil || !ok {
		return err
	}
	if err := a.hist.Legacy.Clear(ctx); err != nil {
		return err
	}
	printlnFn("Legacy history cleared")
	return nil
}

// confirmDelete asks for confirmation unless the user previously chose to
// skip it. Answering "a" (always) persists the skip preference.
func (a *App) confirmDelete(ctx context.Context, question string) (bool, error) {
	skip, err := a.hist.Legacy.SkipDeleteConfirm(ctx)
	if err != nil {
		return false, err
	}
	if skip {
		return true, nil
	}

	answer, err := GetChoice(a.reader, question, []string{"y", "n", "a"}, "n", outW)
	if err != nil {
		return false, err
	}
	switch answer {
	case "y":
		return true, nil
	case "a":
		if err := a.hist.Legacy.SetSkipDeleteConfirm(ctx, true); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
