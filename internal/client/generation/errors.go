package generation

import (
	"errors"
	"fmt"

	"github.com/mkorolis/imagepoints/internal/client/points"
)

var (
	// ErrNotAuthenticated aborts the pipeline before any side effect when
	// no valid credential is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrBalanceUnavailable means the funds check could not run because
	// the balance was neither cached nor fetchable.
	ErrBalanceUnavailable = errors.New("balance unavailable")

	// ErrEmptyResult marks a 2xx submit response carrying no images.
	ErrEmptyResult = errors.New("generation returned no images")
)

// InsufficientPointsError reports a failed funds check. Recoverable and
// purely informational; nothing was submitted.
type InsufficientPointsError struct {
	Current  int64
	Required int64
}

func (e *InsufficientPointsError) Error() string {
	return points.InsufficientMessage(e.Current, e.Required)
}

// Shortage returns how many points are missing.
func (e *InsufficientPointsError) Shortage() int64 {
	return e.Required - e.Current
}

// RecordPersistError flags a generation whose images were produced and
// published but whose durable record could not be created. The ledger is
// not debited in that case.
type RecordPersistError struct {
	Err error
}

func (e *RecordPersistError) Error() string {
	return fmt.Sprintf("generation completed but record was not saved: %v", e.Err)
}

func (e *RecordPersistError) Unwrap() error {
	return e.Err
}
