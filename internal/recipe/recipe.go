// Package recipe composes recipe suggestions from cart contents using
// parametrized templates and a book of predefined recipes.
package recipe

import (
	"sort"
	"strings"
	"time"

	"grocery-planner/internal/ingredient"
)

// Where a suggestion came from.
const (
	SourceTemplate = "template"
	SourceBook     = "book"
)

// Binding records which ingredient filled which slot.
type Binding struct {
	Slot       ingredient.Category `json:"slot"`
	Ingredient string              `json:"ingredient"`
}

// GeneratedRecipe is a suggestion returned to the caller. It is never stored.
type GeneratedRecipe struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Ingredients     []string  `json:"ingredients"`
	Calories        int       `json:"calories"`
	DietTypes       []string  `json:"diet_types"`
	MatchPercentage int       `json:"match_percentage"`
	Source          string    `json:"source"`
	Template        string    `json:"template,omitempty"`
	Bindings        []Binding `json:"bindings,omitempty"`
	URL             string    `json:"url,omitempty"`
}

// Recipe is a predefined recipe from the built-in book or an imported page.
type Recipe struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Calories    int       `json:"calories"`
	DietTypes   []string  `json:"diet_types"`
	SourceURL   string    `json:"source_url,omitempty"`
	ImportedAt  time.Time `json:"imported_at,omitempty"`
}

// Stats counts stored imports and the recipes available to book scoring.
type Stats struct {
	Imported int `json:"imported"`
	Book     int `json:"book"`
}

// Book is the built-in recipe book. Ingredients are lower-case keywords
// matched against cart item names.
var Book = []Recipe{
	{
		ID: "book-greek-salad", Title: "Classic Greek Salad",
		Description: "Tomato, cucumber and feta with olive oil and oregano.",
		Ingredients: []string{"tomato", "cucumber", "feta", "olive oil", "oregano", "onion"},
		Calories:    320, DietTypes: []string{"Vegetarian", "Gluten-Free", "Mediterranean"},
	},
	{
		ID: "book-salmon-quinoa", Title: "Lemon Salmon with Quinoa",
		Description: "Pan-seared salmon on lemony quinoa with spinach.",
		Ingredients: []string{"salmon", "quinoa", "lemon", "spinach", "garlic"},
		Calories:    540, DietTypes: []string{"High-Protein", "Gluten-Free", "Mediterranean"},
	},
	{
		ID: "book-overnight-oats", Title: "Berry Overnight Oats",
		Description: "Oats soaked in milk with berries and chia.",
		Ingredients: []string{"oat", "milk", "berr", "chia", "honey"},
		Calories:    350, DietTypes: []string{"Vegetarian"},
	},
	{
		ID: "book-chicken-broccoli", Title: "Garlic Chicken and Broccoli",
		Description: "Chicken breast and broccoli florets in a garlic sauce over rice.",
		Ingredients: []string{"chicken", "broccoli", "garlic", "rice", "soy sauce"},
		Calories:    480, DietTypes: []string{"High-Protein"},
	},
	{
		ID: "book-tofu-scramble", Title: "Veggie Tofu Scramble",
		Description: "Crumbled tofu with spinach, tomato and onion.",
		Ingredients: []string{"tofu", "spinach", "tomato", "onion"},
		Calories:    290, DietTypes: []string{"Vegan", "Vegetarian", "Gluten-Free", "High-Protein"},
	},
	{
		ID: "book-avocado-toast", Title: "Avocado Toast with Egg",
		Description: "Whole grain bread topped with smashed avocado and a fried egg.",
		Ingredients: []string{"bread", "avocado", "egg", "lemon"},
		Calories:    410, DietTypes: []string{"Vegetarian", "High-Protein"},
	},
	{
		ID: "book-banana-smoothie", Title: "Banana Almond Smoothie",
		Description: "Banana blended with almond butter, yogurt and a little honey.",
		Ingredients: []string{"banana", "almond", "yogurt", "honey"},
		Calories:    330, DietTypes: []string{"Vegetarian", "Gluten-Free"},
	},
	{
		ID: "book-pasta-pomodoro", Title: "Pasta Pomodoro",
		Description: "Spaghetti in a quick tomato, garlic and basil sauce.",
		Ingredients: []string{"pasta", "tomato", "garlic", "basil", "olive oil", "parmesan"},
		Calories:    560, DietTypes: []string{"Vegetarian", "Mediterranean"},
	},
}

// scoreBook returns the recipes sharing at least one ingredient keyword with
// the cart, best match first. Equal scores keep book order.
func scoreBook(book []Recipe, cart []string) []GeneratedRecipe {
	lowered := make([]string, len(cart))
	for i, name := range cart {
		lowered[i] = strings.ToLower(name)
	}

	var out []GeneratedRecipe
	for _, r := range book {
		if len(r.Ingredients) == 0 {
			continue
		}
		matched := 0
		for _, ing := range r.Ingredients {
			if containedInAny(strings.ToLower(ing), lowered) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		out = append(out, GeneratedRecipe{
			Name:            r.Title,
			Description:     r.Description,
			Ingredients:     append([]string(nil), r.Ingredients...),
			Calories:        r.Calories,
			DietTypes:       append([]string(nil), r.DietTypes...),
			MatchPercentage: roundPct(matched, len(r.Ingredients)),
			Source:          SourceBook,
			URL:             r.SourceURL,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

func containedInAny(needle string, haystack []string) bool {
	if needle == "" {
		return false
	}
	for _, h := range haystack {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

func roundPct(n, total int) int {
	return (200*n + total) / (2 * total)
}
