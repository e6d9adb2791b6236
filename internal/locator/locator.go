// Package locator ranks stores by great-circle distance from a coordinate.
package locator

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"grocery-planner/internal/logging"
	"grocery-planner/internal/shared"
)

const (
	deliveryBaseMin = 25
	deliveryBaseMax = 45
	deliverySpanMin = 5
	deliverySpanMax = 20

	syntheticMilesMin = 0.5
	syntheticMilesMax = 5.5
)

// RankedStore is a store with its computed distance and delivery estimate.
type RankedStore struct {
	Store
	DistanceMiles float64 `json:"distance_miles"`
	DeliveryMin   int     `json:"delivery_min"`
	DeliveryMax   int     `json:"delivery_max"`
}

// EstimatedDelivery renders the delivery window, e.g. "30–45 min".
func (r RankedStore) EstimatedDelivery() string {
	return fmt.Sprintf("%d–%d min", r.DeliveryMin, r.DeliveryMax)
}

// Locator ranks a directory's stores.
type Locator struct {
	dir     *Directory
	sampler shared.Sampler
	log     *zap.Logger
}

// New creates a Locator over dir.
func New(dir *Directory, sampler shared.Sampler, logger *zap.Logger) *Locator {
	return &Locator{dir: dir, sampler: sampler, log: logging.OrNop(logger).Named("locator")}
}

// NearestRegion returns the region whose reference coordinate is closest.
func (l *Locator) NearestRegion(at Coordinate) Region {
	best := l.dir.Regions[0]
	bestDist := math.Inf(1)
	for _, r := range l.dir.Regions {
		if d := HaversineMeters(at, r.Center); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

// Nearest ranks the stores of the region nearest to (lat, lng) by distance.
// Invalid input yields the default region with synthetic distances instead
// of an error. It also returns the region used.
func (l *Locator) Nearest(lat, lng float64) ([]RankedStore, Region) {
	at := Coordinate{Lat: lat, Lng: lng}
	if !at.Valid() {
		l.log.Warn("invalid coordinate, using default region",
			zap.Float64("lat", lat), zap.Float64("lng", lng))
		return l.fallback()
	}

	region := l.NearestRegion(at)
	out := make([]RankedStore, 0, len(region.Stores))
	for _, s := range region.Stores {
		dist := s.FallbackMiles
		if s.Location != nil {
			dist = HaversineMiles(at, *s.Location)
		}
		out = append(out, l.rank(s, dist))
	}
	sortByDistance(out)
	return out, region
}

func (l *Locator) fallback() ([]RankedStore, Region) {
	region, ok := l.dir.Region(l.dir.DefaultRegion)
	if !ok {
		region = l.dir.Regions[0]
	}
	out := make([]RankedStore, 0, len(region.Stores))
	for _, s := range region.Stores {
		miles := shared.Uniform(l.sampler, syntheticMilesMin, syntheticMilesMax)
		out = append(out, l.rank(s, math.Round(miles*10)/10))
	}
	sortByDistance(out)
	return out, region
}

func (l *Locator) rank(s Store, miles float64) RankedStore {
	base := shared.UniformInt(l.sampler, deliveryBaseMin, deliveryBaseMax)
	span := shared.UniformInt(l.sampler, deliverySpanMin, deliverySpanMax)
	return RankedStore{
		Store:         s,
		DistanceMiles: miles,
		DeliveryMin:   base,
		DeliveryMax:   base + span,
	}
}

func sortByDistance(stores []RankedStore) {
	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].DistanceMiles < stores[j].DistanceMiles
	})
}
