package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Resolver turns a free-text place name into a single Location.
type Resolver struct {
	geocoder Geocoder
	logger   zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(geocoder Geocoder, logger zerolog.Logger) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		logger:   logger,
	}
}

// NormalizePlace trims the place name and rejects empty input.
func NormalizePlace(place string) (string, error) {
	q := strings.TrimSpace(place)
	if q == "" {
		return "", ErrInvalidInput
	}
	return q, nil
}

// Resolve returns the highest-ranked match for place.
// Any geocoder failure, including a non-success status, is reported as
// ErrLocationNotFound.
func (r *Resolver) Resolve(ctx context.Context, place string) (Location, error) {
	q, err := NormalizePlace(place)
	if err != nil {
		return Location{}, err
	}

	candidates, err := r.geocoder.Geocode(ctx, q, 1)
	if err != nil {
		r.logger.Debug().Err(err).
			Str("place", q).
			Msg("geocoding failed")
		return Location{}, fmt.Errorf("%w: %q: %v", ErrLocationNotFound, q, err)
	}

	if len(candidates) == 0 {
		return Location{}, fmt.Errorf("%w: %q", ErrLocationNotFound, q)
	}

	loc := candidates[0]
	r.logger.Debug().
		Str("place", q).
		Str("name", loc.Name).
		Str("country", loc.Country).
		Float64("lat", loc.Lat).
		Float64("lon", loc.Lon).
		Msg("resolved location")

	return loc, nil
}
