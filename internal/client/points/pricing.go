// Package points owns the client-side point ledger: deterministic pricing
// of generation requests and a cached balance reconciled against the
// remote authority.
package points

import (
	"fmt"
	"strconv"
)

// Per-image point cost by quality tier.
const (
	CostLow      int64 = 20
	CostStandard int64 = 80
	CostHigh     int64 = 140
)

// NormalizeQuality maps a request quality to a pricing tier. "auto" and
// unrecognized values price as standard.
func NormalizeQuality(quality string) string {
	switch quality {
	case "low", "high":
		return quality
	default:
		return "standard"
	}
}

// PointsPerImage returns the cost of a single image at the given quality.
func PointsPerImage(quality string) int64 {
	switch NormalizeQuality(quality) {
	case "low":
		return CostLow
	case "high":
		return CostHigh
	default:
		return CostStandard
	}
}

// RequiredPoints returns the total cost of a request.
func RequiredPoints(quality string, imageCount int) int64 {
	if imageCount < 1 {
		imageCount = 1
	}
	return PointsPerImage(quality) * int64(imageCount)
}

// HasSufficientFunds reports whether the current balance covers the cost.
func HasSufficientFunds(current, required int64) bool {
	return current >= required
}

// FormatPoints collapses large balances for display.
func FormatPoints(points int64) string {
	if points >= 10000 {
		return fmt.Sprintf("%.1fk", float64(points)/1000)
	}
	return strconv.FormatInt(points, 10)
}

// InsufficientMessage renders the funds-check failure for the user.
func InsufficientMessage(current, required int64) string {
	return fmt.Sprintf("insufficient points: current %s, required %s, short %s",
		FormatPoints(current), FormatPoints(required), FormatPoints(required-current))
}
