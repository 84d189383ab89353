package auth

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mkorolis/imagepoints/internal/client/repositories/settings"
	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/mkorolis/imagepoints/internal/logging"
)

// TokenEnvVar is the one-time credential source read at startup, the CLI
// analog of a token passed in launch parameters. It is scrubbed from the
// process environment after the first read.
const TokenEnvVar = "IMAGEPOINTS_TOKEN"

// ExtractFromEnv consumes the one-time credential from the environment.
// Returns "" when absent; never fails.
func ExtractFromEnv() string {
	token, ok := os.LookupEnv(TokenEnvVar)
	if !ok {
		return ""
	}
	_ = os.Unsetenv(TokenEnvVar)
	return token
}

// Session is the constructor-injected credential service shared by every
// gated component. It owns persistence of the token, background
// re-validation, and the clear-on-invalid lifecycle. All methods are safe
// for concurrent use; Clear is idempotent.
type Session struct {
	settings settings.Repository
	log      logging.Logger

	mu      sync.Mutex
	token   string
	onClear []func()

	watchCancel context.CancelFunc
	watchDone   chan struct{}

	now func() time.Time
}

func NewSession(settings settings.Repository, log logging.Logger) *Session {
	return &Session{
		settings: settings,
		log:      log.With("component", "auth"),
		now:      time.Now,
	}
}

// Init establishes the starting credential: launchToken (a one-time source)
// wins over persisted storage. A persisted credential that no longer
// evaluates as valid is cleared and common.ErrTokenExpired is returned so
// the caller can surface an authentication error.
func (s *Session) Init(ctx context.Context, launchToken string) error {
	if launchToken != "" {
		return s.Set(ctx, launchToken)
	}

	stored, err := s.settings.Get(ctx, common.SettingAuthToken)
	if err != nil {
		return fmt.Errorf("error loading credential: %w", err)
	}
	if len(stored) == 0 {
		return nil
	}

	token := string(stored)
	if !Evaluate(token, s.now()).IsValid {
		s.log.Warn(ctx, "persisted credential is no longer valid, clearing")
		if err := s.Clear(ctx); err != nil {
			return err
		}
		return common.ErrTokenExpired
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Set persists the credential and makes it current.
func (s *Session) Set(ctx context.Context, token string) error {
	if err := s.settings.Set(ctx, common.SettingAuthToken, []byte(token)); err != nil {
		return fmt.Errorf("error persisting credential: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear wipes the credential from memory and durable storage and notifies
// registered dependents so they can invalidate derived state (cached
// balance, errors). Safe to call repeatedly and concurrently.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	hooks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	if err := s.settings.Delete(ctx, common.SettingAuthToken); err != nil {
		return fmt.Errorf("error clearing credential: %w", err)
	}

	if hadToken {
		for _, fn := range hooks {
			fn()
		}
	}
	return nil
}

// OnClear registers a hook run whenever a live credential is cleared.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Current evaluates the credential at call time. Validity is never cached.
func (s *Session) Current() TokenInfo {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return TokenInfo{IsExpired: true}
	}
	return Evaluate(token, s.now())
}

// IsAuthenticated reports whether a currently-valid credential is held.
func (s *Session) IsAuthenticated() bool {
	return s.Current().IsValid
}

// AuthHeaders returns the bearer header for outbound requests, or an empty
// map when no valid credential is held.
func (s *Session) AuthHeaders() map[string]string {
	info := s.Current()
	if !info.IsValid {
		return map[string]string{}
	}
	return map[string]string{common.AuthHeaderName: "Bearer " + info.Token}
}

// Revalidate re-evaluates the credential and clears it when it has become
// invalid since the last look. Reports whether a valid credential remains.
func (s *Session) Revalidate(ctx context.Context) bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return false
	}
	if Evaluate(token, s.now()).IsValid {
		return true
	}

	s.log.Warn(ctx, "credential expired, clearing")
	if err := s.Clear(ctx); err != nil {
		s.log.Error(ctx, "error clearing expired credential", "error", err)
	}
	return false
}

// StartWatcher re-validates the credential on a fixed interval until the
// context is cancelled or Teardown is called.
func (s *Session) StartWatcher(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.watchCancel = cancel
	s.watchDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Revalidate(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Teardown stops the background watcher and waits for it to exit.
func (s *Session) Teardown() {
	s.mu.Lock()
	cancel := s.watchCancel
	done := s.watchDone
	s.watchCancel = nil
	s.watchDone = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
