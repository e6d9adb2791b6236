package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"grocery-planner/internal/logging"
	"grocery-planner/internal/shared"
)

// DefaultLookupTimeout bounds one external lookup when none is configured.
const DefaultLookupTimeout = 3 * time.Second

// Recorder receives one SearchMeta per search.
type Recorder interface {
	RecordSearch(meta shared.SearchMeta) error
}

// Synthesizer resolves search terms into products: cached catalog match,
// then external lookup, then synthesis.
type Synthesizer struct {
	store    *Store
	lookup   Lookup
	sampler  shared.Sampler
	timeout  time.Duration
	recorder Recorder
	log      *zap.Logger
	flight   singleflight.Group
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLookup sets the external lookup collaborator. Without one, searches
// that miss the catalog go straight to synthesis.
func WithLookup(l Lookup) Option {
	return func(s *Synthesizer) {
		s.lookup = l
	}
}

// WithTimeout bounds each external lookup.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRecorder reports every search outcome to r.
func WithRecorder(r Recorder) Option {
	return func(s *Synthesizer) {
		s.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) {
		s.log = logging.OrNop(l).Named("synthesizer")
	}
}

// NewSynthesizer creates a Synthesizer over store.
func NewSynthesizer(store *Store, sampler shared.Sampler, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		store:   store,
		sampler: sampler,
		timeout: DefaultLookupTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the catalog cache the synthesizer appends to.
func (s *Synthesizer) Store() *Store {
	return s.store
}

// Search resolves term into products. It never fails: lookup errors fall
// through to synthesis. A blank term yields no products.
func (s *Synthesizer) Search(ctx context.Context, term string) ([]Product, shared.SearchOutcome) {
	start := time.Now()
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, shared.OutcomeCatalog
	}

	products, outcome := s.resolve(ctx, term)

	s.log.Debug("search resolved",
		zap.String("term", term),
		zap.String("outcome", string(outcome)),
		zap.Int("results", len(products)),
	)
	if s.recorder != nil {
		meta := shared.SearchMeta{
			Term:    term,
			Outcome: outcome,
			Results: len(products),
			Latency: time.Since(start),
		}
		if err := s.recorder.RecordSearch(meta); err != nil {
			s.log.Warn("failed to record search metric", zap.Error(err))
		}
	}
	return products, outcome
}

func (s *Synthesizer) resolve(ctx context.Context, term string) ([]Product, shared.SearchOutcome) {
	if hits := s.store.Match(term); len(hits) > 0 {
		return hits, shared.OutcomeCatalog
	}

	if s.lookup != nil {
		records, err := s.lookupOnce(ctx, term)
		switch {
		case err != nil:
			s.log.Warn("product lookup failed, synthesizing", zap.String("term", term), zap.Error(err))
		case len(records) > 0:
			drafts := make([]Product, 0, len(records))
			for _, rec := range records {
				if strings.TrimSpace(rec.Name) == "" {
					continue
				}
				drafts = append(drafts, FromRecord(rec, s.sampler))
			}
			if len(drafts) > 0 {
				return s.store.Append(drafts...), shared.OutcomeLookup
			}
		default:
			s.log.Debug("product lookup returned nothing", zap.String("term", term))
		}
	}

	return s.store.Append(Synthesize(term, s.sampler)...), shared.OutcomeSynthesized
}

// lookupOnce runs the external lookup under a timeout. Concurrent searches
// for the same normalized term share one call.
func (s *Synthesizer) lookupOnce(ctx context.Context, term string) ([]Record, error) {
	key := strings.ToLower(term)
	ch := s.flight.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.lookup.Lookup(lctx, term)
	})

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		records, _ := res.Val.([]Record)
		return records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, errLookupTimeout
	}
}

var errLookupTimeout = errors.New("product lookup timed out")
