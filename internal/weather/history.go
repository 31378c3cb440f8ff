package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// HistoryYears is the number of previous years the backfill attempts.
const HistoryYears = 3

// BackfillConfig holds configuration for the historical backfill.
type BackfillConfig struct {
	// Provider answers point-in-time requests.
	Provider HistoryProvider

	// Logger for backfill operations.
	Logger zerolog.Logger

	// Now overrides the clock that defines "today" (optional).
	Now func() time.Time
}

// Backfill collects same-calendar-day readings for previous years on a
// best-effort basis.
type Backfill struct {
	provider HistoryProvider
	logger   zerolog.Logger
	now      func() time.Time
}

// HistoricalAttempt is the outcome of one year offset.
type HistoricalAttempt struct {
	YearsAgo int
	Target   time.Time
	Sample   HistoricalSample
	Err      error
}

// OK reports whether the attempt produced a sample.
func (a HistoricalAttempt) OK() bool {
	return a.Err == nil
}

// NewBackfill creates a new historical backfill.
func NewBackfill(cfg BackfillConfig) *Backfill {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Backfill{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		now:      now,
	}
}

// SameDayYearsAgo returns midnight of today's month/day in the year
// yearsAgo years before now, in now's location. February 29 in a non-leap
// target year normalizes to March 1.
func SameDayYearsAgo(now time.Time, yearsAgo int) time.Time {
	return time.Date(now.Year()-yearsAgo, now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// HistoricalLabel returns the relative-date label for a live sample.
func HistoricalLabel(yearsAgo int) string {
	if yearsAgo == 1 {
		return "Same day 1 year ago"
	}
	return fmt.Sprintf("Same day %d years ago", yearsAgo)
}

// Attempts fetches every offset in 1..HistoryYears, strictly in ascending
// order, and records one attempt per offset. Failures never stop the loop.
func (b *Backfill) Attempts(ctx context.Context, loc Location) []HistoricalAttempt {
	today := b.now()
	attempts := make([]HistoricalAttempt, 0, HistoryYears)

	for offset := 1; offset <= HistoryYears; offset++ {
		target := SameDayYearsAgo(today, offset)
		attempt := HistoricalAttempt{YearsAgo: offset, Target: target}

		reading, err := b.provider.GetHistorical(ctx, loc.Lat, loc.Lon, target)
		switch {
		case err != nil:
			attempt.Err = fmt.Errorf("%w: %v", ErrHistoricalUnavailable, err)
		case reading == nil:
			attempt.Err = fmt.Errorf("%w: empty reading", ErrHistoricalUnavailable)
		default:
			attempt.Sample = HistoricalSample{
				Label:       HistoricalLabel(offset),
				Temperature: reading.Temperature,
				Description: reading.Description,
				Year:        target.Year(),
				YearsAgo:    offset,
			}
		}

		if attempt.Err != nil {
			b.logger.Warn().Err(attempt.Err).
				Int("year_offset", offset).
				Int("year", target.Year()).
				Float64("lat", loc.Lat).
				Float64("lon", loc.Lon).
				Msg("skipping historical year")
		}

		attempts = append(attempts, attempt)
	}

	return attempts
}

// Collect returns the successful samples only, in ascending offset order.
// It never fails; an empty result means every offset was skipped.
func (b *Backfill) Collect(ctx context.Context, loc Location) []HistoricalSample {
	return Successful(b.Attempts(ctx, loc))
}

// Successful filters attempts down to their samples, preserving order.
func Successful(attempts []HistoricalAttempt) []HistoricalSample {
	samples := make([]HistoricalSample, 0, len(attempts))
	for _, a := range attempts {
		if a.OK() {
			samples = append(samples, a.Sample)
		}
	}
	return samples
}
