// Package forecast orchestrates the lookup pipeline: postal code to
// coordinates against the offline dataset, then the two-step NWS fetch.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mtcodes/zipweather/internal/geocode"
	"github.com/mtcodes/zipweather/internal/nws"
)

var (
	// ErrEmptyPostalCode is returned when the input is blank.
	ErrEmptyPostalCode = errors.New("postal code must not be empty")

	// ErrUnknownPostalCode is returned when the offline dataset has no entry
	// for the requested code. No network call is made in that case.
	ErrUnknownPostalCode = errors.New("postal code not found in offline dataset")
)

// Resolver answers offline postal code lookups.
type Resolver interface {
	Resolve(code string) (geocode.Location, bool)
}

// Fetcher retrieves forecast periods for coordinates.
type Fetcher interface {
	GetForecast(ctx context.Context, lat, lon float64) ([]nws.Period, error)
}

// Report is the result of one successful lookup: the resolved location and
// the upstream's chronologically ordered forecast periods. Never empty.
type Report struct {
	Location geocode.Location `json:"location"`
	Periods  []nws.Period     `json:"periods"`
}

// Current returns the first period. The upstream orders periods
// chronologically and the first one is treated as current/upcoming; no
// time-of-day filtering is applied.
func (r Report) Current() nws.Period {
	return r.Periods[0]
}

// Service runs the lookup pipeline. One instance serves one CLI invocation
// or is shared across serve-mode requests.
type Service struct {
	resolver Resolver
	fetcher  Fetcher
}

// NewService creates a Service.
func NewService(resolver Resolver, fetcher Fetcher) *Service {
	return &Service{
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// Lookup resolves a postal code and fetches its forecast. All failures
// propagate to the caller; nothing is partially reported.
func (s *Service) Lookup(ctx context.Context, postalCode string) (Report, error) {
	postalCode = strings.TrimSpace(postalCode)
	if postalCode == "" {
		return Report{}, ErrEmptyPostalCode
	}

	loc, ok := s.resolver.Resolve(postalCode)
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownPostalCode, postalCode)
	}

	log.Printf("resolved %s to %s (%.4f, %.4f)", postalCode, loc.DisplayName(), loc.Latitude, loc.Longitude)

	periods, err := s.fetcher.GetForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return Report{}, fmt.Errorf("fetching forecast for %s: %w", loc.DisplayName(), err)
	}

	return Report{Location: loc, Periods: periods}, nil
}
