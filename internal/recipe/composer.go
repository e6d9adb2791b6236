package recipe

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/logging"
	"grocery-planner/internal/shared"
)

const (
	// MaxSuggestions caps one Generate call.
	MaxSuggestions = 4
	// maxTemplates caps how many templates are filled per call.
	maxTemplates = 3
	// optionalBindRate is the chance an optional slot with candidates is filled.
	optionalBindRate = 0.7
	// caloriesPerSlot is added to the template base per bound slot.
	caloriesPerSlot = 25
	minMatch        = 70
)

// Composer turns cart item names into recipe suggestions.
type Composer struct {
	templates []Template
	sampler   shared.Sampler
	log       *zap.Logger

	mu   sync.RWMutex
	book []Recipe
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithTemplates replaces the built-in templates.
func WithTemplates(t []Template) ComposerOption {
	return func(c *Composer) {
		c.templates = t
	}
}

// WithBook replaces the built-in recipe book.
func WithBook(b []Recipe) ComposerOption {
	return func(c *Composer) {
		c.book = append([]Recipe(nil), b...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ComposerOption {
	return func(c *Composer) {
		c.log = logging.OrNop(l).Named("composer")
	}
}

// NewComposer creates a Composer drawing randomness from sampler.
func NewComposer(sampler shared.Sampler, opts ...ComposerOption) *Composer {
	c := &Composer{
		templates: Templates,
		sampler:   sampler,
		log:       zap.NewNop(),
		book:      append([]Recipe(nil), Book...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddToBook makes recipes available to book scoring. Recipes whose ID is
// already present are replaced.
func (c *Composer) AddToBook(recipes ...Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range recipes {
		replaced := false
		for i := range c.book {
			if c.book[i].ID == r.ID {
				c.book[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			c.book = append(c.book, r)
		}
	}
}

// RemoveFromBook drops the recipe with id from book scoring. It reports
// whether one was present.
func (c *Composer) RemoveFromBook(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.book {
		if c.book[i].ID == id {
			c.book = append(c.book[:i], c.book[i+1:]...)
			return true
		}
	}
	return false
}

// BookSize returns the number of recipes available for scoring.
func (c *Composer) BookSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.book)
}

// Generate returns at most MaxSuggestions recipes for the given cart item
// names: filled templates first, then matching book recipes. A cart that
// satisfies no template simply yields fewer (or no) suggestions.
func (c *Composer) Generate(items []string) []GeneratedRecipe {
	groups := groupByCategory(items)

	var eligible []Template
	for _, t := range c.templates {
		if isEligible(t, groups) {
			eligible = append(eligible, t)
		}
	}
	c.sampler.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if len(eligible) > maxTemplates {
		eligible = eligible[:maxTemplates]
	}

	out := make([]GeneratedRecipe, 0, MaxSuggestions)
	for _, t := range eligible {
		out = append(out, c.fill(t, groups))
	}

	c.mu.RLock()
	book := scoreBook(c.book, items)
	c.mu.RUnlock()
	out = append(out, book...)

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}

	c.log.Debug("recipes generated",
		zap.Int("items", len(items)),
		zap.Int("eligible_templates", len(eligible)),
		zap.Int("book_matches", len(book)),
		zap.Int("returned", len(out)),
	)
	return out
}

func (c *Composer) fill(t Template, groups map[ingredient.Category][]string) GeneratedRecipe {
	bound := make(map[ingredient.Category]string)
	var bindings []Binding

	bind := func(slot ingredient.Category) {
		candidates := groups[slot]
		choice := candidates[c.sampler.IntN(len(candidates))]
		bound[slot] = choice
		bindings = append(bindings, Binding{Slot: slot, Ingredient: choice})
	}

	for _, slot := range t.Required {
		bind(slot)
	}
	for _, slot := range t.Optional {
		if len(groups[slot]) == 0 {
			continue
		}
		if c.sampler.Float64() < optionalBindRate {
			bind(slot)
		}
	}

	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Ingredient
	}

	name, description := t.Fill(bound)
	match := roundPct(len(bindings), t.SlotCount())
	if match < minMatch {
		match = minMatch
	}

	return GeneratedRecipe{
		Name:            name,
		Description:     description,
		Ingredients:     names,
		Calories:        t.BaseCalories + caloriesPerSlot*len(bindings),
		DietTypes:       InferDiets(t.Diets, names),
		MatchPercentage: match,
		Source:          SourceTemplate,
		Template:        t.Key,
		Bindings:        bindings,
	}
}

// groupByCategory buckets distinct item names by classifier category,
// preserving cart order.
func groupByCategory(items []string) map[ingredient.Category][]string {
	groups := make(map[ingredient.Category][]string)
	seen := make(map[string]bool)
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		cat := ingredient.Categorize(item)
		groups[cat] = append(groups[cat], item)
	}
	return groups
}

func isEligible(t Template, groups map[ingredient.Category][]string) bool {
	if len(t.Required) == 0 {
		return false
	}
	for _, slot := range t.Required {
		if len(groups[slot]) == 0 {
			return false
		}
	}
	return true
}
