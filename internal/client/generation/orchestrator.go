// Package generation runs the pipeline that submits a request,
// materializes the returned images, uploads them, persists the record,
// debits the ledger and publishes the outcome. Every step is an
// independent network call with its own failure mode. Per-image upload
// failures shrink the record but not the batch; a failed record keeps
// images visible and the ledger untouched; the debit happens only after
// the record exists.
package generation

import (
	"context"
	"time"

	"github.com/mkorolis/imagepoints/internal/client/api"
	"github.com/mkorolis/imagepoints/internal/client/history"
	"github.com/mkorolis/imagepoints/internal/client/points"
	"github.com/mkorolis/imagepoints/internal/client/repositories/blobs"
	"github.com/mkorolis/imagepoints/internal/client/uploader"
	"github.com/mkorolis/imagepoints/internal/logging"
)

// State classifies how a pipeline run ended.
type State string

const (
	StateCompleted              State = "completed"
	StateCompletedWithRecordErr State = "completed_with_record_error"
	StateFailed                 State = "failed"
)

// ViewMode tells the presentation layer how to lay out the batch.
type ViewMode string

const (
	ViewSingle ViewMode = "single"
	ViewGrid   ViewMode = "grid"
)

// CredentialSource supplies a freshly re-evaluated credential state and
// the auth headers derived from it.
type CredentialSource interface {
	Revalidate(ctx context.Context) bool
	AuthHeaders() map[string]string
}

// BalanceSource is the slice of the ledger the orchestrator drives.
type BalanceSource interface {
	Balance() (points.Balance, bool)
	Refresh(ctx context.Context, headers map[string]string) (*points.Balance, error)
	DebitLocally(points int64)
}

// Submitter sends the generation call.
type Submitter interface {
	SubmitGeneration(ctx context.Context, req *api.ImageRequest, headers map[string]string) (*api.GenerateResult, error)
}

// RecordCreator persists the durable generation record.
type RecordCreator interface {
	CreateRecord(ctx context.Context, rec *api.GenerationRecord, headers map[string]string) (*api.GenerationRecord, error)
}

// LocalJournal appends to the legacy local history list.
type LocalJournal interface {
	Append(ctx context.Context, entry *history.LegacyEntry) error
}

// Outcome is the published result of one pipeline run.
type Outcome struct {
	State      State
	Images     []Artifact
	View       ViewMode
	PointsUsed int64
	RecordErr  error
	Usage      *api.Usage
	DurationMs int64
}

// Orchestrator wires the pipeline's collaborators. The journal and blob
// store are optional; when present each completed run is also mirrored
// into the legacy local history with object-store backing.
type Orchestrator struct {
	session   CredentialSource
	ledger    BalanceSource
	submitter Submitter
	records   RecordCreator
	uploader  uploader.Uploader
	journal   LocalJournal
	blobs     blobs.Repository

	categoryID     string
	sourceConfigID string

	log logging.Logger
	now func() time.Time
}

type Option func(*Orchestrator)

// WithLocalJournal mirrors completed runs into the legacy local history,
// storing artifact bytes in the local object store.
func WithLocalJournal(journal LocalJournal, store blobs.Repository) Option {
	return func(o *Orchestrator) {
		o.journal = journal
		o.blobs = store
	}
}

func NewOrchestrator(session CredentialSource, ledger BalanceSource,
	submitter Submitter, records RecordCreator, up uploader.Uploader,
	categoryID, sourceConfigID string, log logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		session:        session,
		ledger:         ledger,
		submitter:      submitter,
		records:        records,
		uploader:       up,
		categoryID:     categoryID,
		sourceConfigID: sourceConfigID,
		log:            log.With("component", "generation"),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one generation call end to end. Preflight failures (auth,
// funds) and terminal submit failures return StateFailed with the error;
// a record-persist failure returns StateCompletedWithRecordErr with a nil
// error and the failure attached to the outcome.
func (o *Orchestrator) Run(ctx context.Context, req *api.ImageRequest) (*Outcome, error) {
	// preflight: identity, then funds; no side effects before submit
	if !o.session.Revalidate(ctx) {
		return &Outcome{State: StateFailed}, ErrNotAuthenticated
	}
	headers := o.session.AuthHeaders()

	required := points.RequiredPoints(req.Quality, req.N)
	current, err := o.currentPoints(ctx, headers)
	if err != nil {
		return &Outcome{State: StateFailed}, err
	}
	if !points.HasSufficientFunds(current, required) {
		return &Outcome{State: StateFailed}, &InsufficientPointsError{Current: current, Required: required}
	}

	start := o.now()
	result, err := o.submitter.SubmitGeneration(ctx, req, headers)
	if err != nil {
		return &Outcome{State: StateFailed}, err
	}
	if len(result.Images) == 0 {
		return &Outcome{State: StateFailed}, ErrEmptyResult
	}

	artifacts := materializeArtifacts(ctx, result.Images, o.log)
	if len(artifacts) == 0 {
		return &Outcome{State: StateFailed}, ErrEmptyResult
	}

	var recordURLs []string
	for i := range artifacts {
		url, err := o.uploader.Upload(ctx, artifacts[i].Filename, artifacts[i].Data, artifacts[i].MimeType)
		if err != nil {
			o.log.Warn(ctx, "upload failed, dropping image from record",
				"filename", artifacts[i].Filename, "error", err)
			continue
		}
		artifacts[i].URL = url
		recordURLs = append(recordURLs, url)
	}

	pointsUsed := points.RequiredPoints(req.Quality, len(artifacts))
	durationMs := o.now().Sub(start).Milliseconds()

	outcome := &Outcome{
		State:      StateCompleted,
		Images:     artifacts,
		View:       viewFor(artifacts),
		PointsUsed: pointsUsed,
		Usage:      result.Usage,
		DurationMs: durationMs,
	}

	record := &api.GenerationRecord{
		ProjectCategory: o.categoryID,
		Prompt:          req.Prompt,
		Params:          frozenParams(req),
		ImageURLs:       recordURLs,
		SourceConfigID:  o.sourceConfigID,
		PointsUsed:      pointsUsed,
	}
	if _, err := o.records.CreateRecord(ctx, record, headers); err != nil {
		// images stay published, no debit; uploaded blobs are orphaned
		o.log.Warn(ctx, "record create failed, uploads orphaned",
			"urls", recordURLs, "error", err)
		outcome.State = StateCompletedWithRecordErr
		outcome.RecordErr = &RecordPersistError{Err: err}
		return outcome, nil
	}

	// record success strictly precedes the debit
	o.ledger.DebitLocally(pointsUsed)

	o.mirrorToJournal(ctx, req, outcome)
	return outcome, nil
}

func (o *Orchestrator) currentPoints(ctx context.Context, headers map[string]string) (int64, error) {
	if b, ok := o.ledger.Balance(); ok {
		return b.CurrentPoints, nil
	}
	b, err := o.ledger.Refresh(ctx, headers)
	if err != nil {
		return 0, ErrBalanceUnavailable
	}
	return b.CurrentPoints, nil
}

// mirrorToJournal keeps the legacy local history in step with completed
// runs. Failures here never fail the run.
func (o *Orchestrator) mirrorToJournal(ctx context.Context, req *api.ImageRequest, outcome *Outcome) {
	if o.journal == nil {
		return
	}

	filenames := make([]string, 0, len(outcome.Images))
	for _, a := range outcome.Images {
		if o.blobs != nil {
			if err := o.blobs.Put(ctx, &blobs.Blob{Filename: a.Filename, MimeType: a.MimeType, Data: a.Data}); err != nil {
				o.log.Warn(ctx, "failed to store artifact locally", "filename", a.Filename, "error", err)
				continue
			}
		}
		filenames = append(filenames, a.Filename)
	}

	entry := &history.LegacyEntry{
		Timestamp:  o.now().UnixMilli(),
		Filenames:  filenames,
		Backend:    history.BackendObjectStore,
		DurationMs: outcome.DurationMs,
		Params:     frozenParams(req),
		CostDetails: &history.CostDetails{
			Quality:        points.NormalizeQuality(req.Quality),
			PointsPerImage: points.PointsPerImage(req.Quality),
			ImageCount:     len(outcome.Images),
		},
		PointsUsed: outcome.PointsUsed,
	}
	if err := o.journal.Append(ctx, entry); err != nil {
		o.log.Warn(ctx, "failed to append local history entry", "error", err)
	}
}

func viewFor(artifacts []Artifact) ViewMode {
	if len(artifacts) == 1 {
		return ViewSingle
	}
	return ViewGrid
}

// frozenParams captures the request parameters as stored with records and
// history entries.
func frozenParams(req *api.ImageRequest) map[string]any {
	p := map[string]any{
		"model":         "gpt-image-1",
		"mode":          req.Mode,
		"prompt":        req.Prompt,
		"n":             req.N,
		"size":          req.Size,
		"quality":       req.Quality,
		"output_format": req.OutputFormat,
		"background":    req.Background,
		"moderation":    req.Moderation,
	}
	if req.OutputCompression != nil {
		p["output_compression"] = *req.OutputCompression
	}
	return p
}
