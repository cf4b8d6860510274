package geocode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

// ErrStale reports a response that was overtaken by a newer search.
var ErrStale = errors.New("geocode response superseded by a newer search")

// Geocoder resolves free text to candidate places near bias.
type Geocoder interface {
	Search(ctx context.Context, query string, bias models.LatLng) (Response, error)
}

// GeocoderFunc adapts a function to Geocoder.
type GeocoderFunc func(ctx context.Context, query string, bias models.LatLng) (Response, error)

func (f GeocoderFunc) Search(ctx context.Context, query string, bias models.LatLng) (Response, error) {
	return f(ctx, query, bias)
}

// Result is a response tagged with the token of the search that produced it.
type Result struct {
	Token    uint64
	Response Response
}

// Searcher runs one geocoder search at a time. Starting a search cancels the
// one in flight, and only the latest search's response is returned.
type Searcher struct {
	geocoder Geocoder

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

func NewSearcher(g Geocoder) *Searcher {
	return &Searcher{geocoder: g}
}

// Search queries the geocoder. It returns ErrStale if another search started
// before this one finished, and wraps geocoder failures in GeocodeFailure.
func (s *Searcher) Search(ctx context.Context, query string, bias models.LatLng) (Result, error) {
	if s.geocoder == nil {
		return Result{}, fmt.Errorf("%w: no geocoder configured", apperrors.GeocodeFailure)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.latest++
	token := s.latest
	s.cancel = cancel
	s.mu.Unlock()

	resp, err := s.geocoder.Search(ctx, query, bias)

	if !s.Current(token) {
		return Result{}, ErrStale
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q: %w", apperrors.GeocodeFailure, query, err)
	}
	return Result{Token: token, Response: resp}, nil
}

// Current reports whether token belongs to the most recent search.
func (s *Searcher) Current(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.latest
}
