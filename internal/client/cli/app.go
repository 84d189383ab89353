package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mkorolis/imagepoints/internal/client/api"
	"github.com/mkorolis/imagepoints/internal/client/auth"
	"github.com/mkorolis/imagepoints/internal/client/config"
	"github.com/mkorolis/imagepoints/internal/client/generation"
	"github.com/mkorolis/imagepoints/internal/client/history"
	"github.com/mkorolis/imagepoints/internal/client/points"
	"github.com/mkorolis/imagepoints/internal/client/repositories"
	"github.com/mkorolis/imagepoints/internal/client/uploader"
	"github.com/mkorolis/imagepoints/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the session, ledger, history stores and the generation
// pipeline behind the REPL commands.
type App struct {
	config  *config.Config
	repos   *repositories.Repositories
	session *auth.Session
	ledger  *points.Ledger
	client  *api.Client
	hist    *history.Store
	cache   *history.BlobCache
	orch    *generation.Orchestrator

	// last published batch, feeds send-to-edit
	lastImages   []generation.Artifact
	editInFlight atomic.Bool

	reader *bufio.Reader
	log    logging.Logger
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := repositories.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	client := api.NewClient(c.AdminBaseURL, c.ImagesBaseURL, c.StorageUploadURL, log)

	session := auth.NewSession(repos.Settings, log)
	ledger := points.NewLedger(client, log)
	session.OnClear(func() { ledger.Invalidate() })

	cache, err := history.NewBlobCache(repos.Blobs, log)
	if err != nil {
		return nil, err
	}

	imageURL := func(fn string) string { return c.ImagesBaseURL + "/api/image/" + fn }
	legacy := history.NewLegacyStore(repos.DB, repos.Settings, repos.Blobs, client, cache, imageURL, log)
	remote := history.NewRemoteStore(client, c.CategoryID, log)

	var up uploader.Uploader
	switch c.Uploader {
	case config.UploaderS3:
		up, err = uploader.NewS3Uploader(ctx, &uploader.S3Options{
			Endpoint:      c.S3Endpoint,
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			PublicBaseURL: c.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing s3 uploader: %w", err)
		}
	default:
		up = uploader.NewAPIUploader(client)
	}

	orch := generation.NewOrchestrator(session, ledger, client, client, up,
		c.CategoryID, c.SourceConfigID, log,
		generation.WithLocalJournal(legacy, repos.Blobs))

	return &App{
		config:  c,
		repos:   repos,
		session: session,
		ledger:  ledger,
		client:  client,
		hist:    history.NewStore(remote, legacy),
		cache:   cache,
		orch:    orch,
		reader:  bufio.NewReader(os.Stdin),
		log:     log.With("component", "cli"),
	}, nil
}

// Run initializes the session from the one-time launch credential, starts
// the background token watcher and enters the REPL. launchToken may be
// empty; a previously persisted credential is picked up instead.
func (a *App) Run(ctx context.Context, launchToken string) {
	defer a.teardown()

	if err := a.session.Init(ctx, launchToken); err != nil {
		printlnFn("Stored credential rejected:", err.Error())
	}
	if a.session.IsAuthenticated() {
		if _, err := a.ledger.Refresh(ctx, a.session.AuthHeaders()); err != nil {
			a.log.Warn(ctx, "initial balance refresh failed", "error", err)
		}
	}

	a.session.StartWatcher(ctx, a.config.TokenCheckInterval)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) teardown() {
	a.session.Teardown()
	if err := a.cache.Close(); err != nil {
		a.log.Warn(context.Background(), "cache teardown failed", "error", err)
	}
	if err := a.repos.DB.Close(); err != nil {
		a.log.Warn(context.Background(), "closing database failed", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	info := a.session.Current()
	if !info.IsValid {
		return "(anonymous)"
	}

	s := info.Claims.DisplayName()
	if b, ok := a.ledger.Balance(); ok {
		s = fmt.Sprintf("%s %s pts", s, points.FormatPoints(b.CurrentPoints))
	}
	return "(" + s + ")"
}

// requireAuth re-evaluates the credential before a gated command.
func (a *App) requireAuth(ctx context.Context) error {
	if !a.session.Revalidate(ctx) {
		return generation.ErrNotAuthenticated
	}
	return nil
}
