package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/corey-alix/trip-planner-app/internal/apperrors"
	"github.com/corey-alix/trip-planner-app/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSearcherReturnsResponse(t *testing.T) {
	searcher := NewSearcher(GeocoderFunc(func(ctx context.Context, query string, bias models.LatLng) (Response, error) {
		return Response{Query: Query{Text: query}, Features: []Feature{point(bias.Lng, bias.Lat, "city")}}, nil
	}))

	result, err := searcher.Search(context.Background(), "boone", models.LatLng{Lat: 1, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Token)
	assert.True(t, searcher.Current(result.Token))
	assert.Equal(t, "boone", result.Response.Query.Text)
}

func TestSearcherWrapsFailures(t *testing.T) {
	errOffline := errors.New("offline")
	searcher := NewSearcher(GeocoderFunc(func(ctx context.Context, query string, bias models.LatLng) (Response, error) {
		return Response{}, errOffline
	}))

	_, err := searcher.Search(context.Background(), "boone", models.LatLng{})
	assert.ErrorIs(t, err, apperrors.GeocodeFailure)
	assert.ErrorIs(t, err, errOffline)
}

func TestSearcherWithoutGeocoder(t *testing.T) {
	_, err := NewSearcher(nil).Search(context.Background(), "x", models.LatLng{})
	assert.ErrorIs(t, err, apperrors.GeocodeFailure)
}

func TestSearcherDiscardsStaleResponse(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	searcher := NewSearcher(GeocoderFunc(func(ctx context.Context, query string, bias models.LatLng) (Response, error) {
		if query == "slow" {
			close(started)
			select {
			case <-ctx.Done():
			case <-release:
			}
			return Response{Query: Query{Text: query}}, nil
		}
		return Response{Query: Query{Text: query}}, nil
	}))

	type outcome struct {
		result Result
		err    error
	}
	slow := make(chan outcome, 1)
	go func() {
		result, err := searcher.Search(context.Background(), "slow", models.LatLng{})
		slow <- outcome{result, err}
	}()

	<-started
	fast, err := searcher.Search(context.Background(), "fast", models.LatLng{})
	require.NoError(t, err)
	assert.Equal(t, "fast", fast.Response.Query.Text)

	close(release)
	got := <-slow
	assert.ErrorIs(t, got.err, ErrStale)
	assert.True(t, searcher.Current(fast.Token))
	assert.False(t, searcher.Current(fast.Token-1))
}

func TestSearcherCancelsInFlightSearch(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan error, 1)

	searcher := NewSearcher(GeocoderFunc(func(ctx context.Context, query string, bias models.LatLng) (Response, error) {
		if query == "first" {
			close(started)
			<-ctx.Done()
			cancelled <- ctx.Err()
			return Response{}, ctx.Err()
		}
		return Response{}, nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := searcher.Search(context.Background(), "first", models.LatLng{})
		done <- err
	}()

	<-started
	_, err := searcher.Search(context.Background(), "second", models.LatLng{})
	require.NoError(t, err)

	assert.ErrorIs(t, <-cancelled, context.Canceled)
	assert.ErrorIs(t, <-done, ErrStale, "a cancelled search is stale, not a geocoder failure")
}
