package locator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"grocery-planner/internal/shared"
)

type failingGeolocator struct{ err error }

func (f failingGeolocator) Locate(ctx context.Context) (Coordinate, error) {
	return Coordinate{}, f.err
}

func TestLocateFailureFallsBack(t *testing.T) {
	l := New(DefaultDirectory(), shared.NewSampler(2), nil)

	for _, err := range []error{ErrPermissionDenied, ErrPositionUnavailable, ErrTimeout} {
		t.Run(err.Error(), func(t *testing.T) {
			res := l.Locate(context.Background(), failingGeolocator{err: err})
			assert.Equal(t, FallbackCoordinate, res.At)
			assert.Equal(t, "MN", res.Region)
			assert.NotEmpty(t, res.Advisory)
			assert.NotEmpty(t, res.Stores)
		})
	}
}

func TestLocateSuccess(t *testing.T) {
	l := New(DefaultDirectory(), shared.NewSampler(2), nil)

	res := l.Locate(context.Background(), Fixed{Lat: 41.88, Lng: -87.63})
	assert.Equal(t, "IL", res.Region)
	assert.Empty(t, res.Advisory)

	res = l.Locate(context.Background(), Fixed{Lat: 300, Lng: 0})
	assert.Equal(t, "MN", res.Region)
	assert.Equal(t, Advisory(ErrPositionUnavailable), res.Advisory)
}

func TestPrompt(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("delivered", func(t *testing.T) {
		p := NewPrompt()
		go p.Deliver(Coordinate{40.71, -74.0})

		at, err := p.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Coordinate{40.71, -74.0}, at)
	})

	t.Run("declined", func(t *testing.T) {
		p := NewPrompt()
		assert.True(t, p.Decline())
		assert.False(t, p.Deliver(Coordinate{1, 1}), "only one pending answer")

		_, err := p.Locate(context.Background())
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := NewPrompt().Locate(ctx)
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewPrompt().Locate(ctx)
		assert.ErrorIs(t, err, ErrPositionUnavailable)
	})

	t.Run("timeout through locator", func(t *testing.T) {
		l := New(DefaultDirectory(), shared.NewSampler(2), nil)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		res := l.Locate(ctx, NewPrompt())
		assert.Equal(t, Advisory(ErrTimeout), res.Advisory)
		assert.Equal(t, FallbackCoordinate, res.At)
	})
}
