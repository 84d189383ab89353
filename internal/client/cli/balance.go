package cli

import (
	"context"
	"fmt"

	"github.com/mkorolis/imagepoints/internal/client/points"
)

// Balance re-fetches the authoritative balance and prints it. The cached
// value is replaced wholesale (fetch wins over any local debits).
func (a *App) Balance(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	b, err := a.ledger.Refresh(ctx, a.session.AuthHeaders())
	if err != nil {
		return err
	}

	printlnFn("User:", b.Username)
	printlnFn("Current points:", points.FormatPoints(b.CurrentPoints))
	printlnFn(fmt.Sprintf("Usage today: %s, this month: %s",
		points.FormatPoints(b.TodayUsage), points.FormatPoints(b.MonthUsage)))
	if b.LastUpdated != "" {
		printlnFn("Last updated:", b.LastUpdated)
	}
	return nil
}
