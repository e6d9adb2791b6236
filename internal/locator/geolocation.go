package locator

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Geolocation failures.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("location unavailable")
	ErrTimeout             = errors.New("location request timed out")
)

// Geolocator acquires the user's position.
type Geolocator interface {
	Locate(ctx context.Context) (Coordinate, error)
}

// FallbackCoordinate is used whenever geolocation fails.
var FallbackCoordinate = Coordinate{Lat: 44.9778, Lng: -93.2650}

// Result is a ranking together with how the position was obtained.
type Result struct {
	At       Coordinate    `json:"at"`
	Region   string        `json:"region"`
	Stores   []RankedStore `json:"stores"`
	Advisory string        `json:"advisory,omitempty"`
}

// Locate ranks stores around the position reported by geo. A failed
// acquisition ranks around FallbackCoordinate and sets an advisory.
func (l *Locator) Locate(ctx context.Context, geo Geolocator) Result {
	at, err := geo.Locate(ctx)
	advisory := ""
	if err != nil {
		l.log.Info("geolocation failed, using fallback", zap.Error(err))
		at = FallbackCoordinate
		advisory = Advisory(err)
	}

	stores, region := l.Nearest(at.Lat, at.Lng)
	return Result{At: at, Region: region.Code, Stores: stores, Advisory: advisory}
}

// Advisory is the user-facing note for a geolocation failure.
func Advisory(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location access was denied, so stores near Minneapolis are shown. Share your location to see stores near you."
	case errors.Is(err, ErrTimeout):
		return "Your location took too long to arrive, so stores near Minneapolis are shown."
	default:
		return "Your location is unavailable right now, so stores near Minneapolis are shown."
	}
}

// Fixed is a Geolocator that always reports the same coordinate.
type Fixed Coordinate

// Locate implements Geolocator.
func (f Fixed) Locate(ctx context.Context) (Coordinate, error) {
	c := Coordinate(f)
	if !c.Valid() {
		return Coordinate{}, ErrPositionUnavailable
	}
	return c, nil
}

// Prompt is a Geolocator fed asynchronously, e.g. by a chat message that
// shares a location. It holds at most one pending answer.
type Prompt struct {
	answer chan promptAnswer
}

type promptAnswer struct {
	at  Coordinate
	err error
}

// NewPrompt creates an unanswered prompt.
func NewPrompt() *Prompt {
	return &Prompt{answer: make(chan promptAnswer, 1)}
}

// Deliver answers the prompt with a coordinate. It reports false if an
// answer is already pending.
func (p *Prompt) Deliver(c Coordinate) bool {
	return p.send(promptAnswer{at: c})
}

// Decline answers the prompt with a denial.
func (p *Prompt) Decline() bool {
	return p.send(promptAnswer{err: ErrPermissionDenied})
}

func (p *Prompt) send(a promptAnswer) bool {
	select {
	case p.answer <- a:
		return true
	default:
		return false
	}
}

// Locate waits for an answer or for ctx to end.
func (p *Prompt) Locate(ctx context.Context) (Coordinate, error) {
	select {
	case a := <-p.answer:
		if a.err != nil {
			return Coordinate{}, a.err
		}
		if !a.at.Valid() {
			return Coordinate{}, ErrPositionUnavailable
		}
		return a.at, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinate{}, ErrTimeout
		}
		return Coordinate{}, ErrPositionUnavailable
	}
}
