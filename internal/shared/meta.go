package shared

import (
	"time"
)

// SearchOutcome tells which resolution path answered a product search.
type SearchOutcome string

const (
	OutcomeCatalog     SearchOutcome = "catalog"
	OutcomeLookup      SearchOutcome = "lookup"
	OutcomeSynthesized SearchOutcome = "synthesized"
)

// SearchMeta holds operational metadata for one product search.
type SearchMeta struct {
	Term    string
	Outcome SearchOutcome
	Results int
	Latency time.Duration
}
