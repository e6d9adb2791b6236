package recipe

import "strings"

var (
	animalKeywords = []string{
		"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna", "shrimp",
		"egg", "lamb", "bacon", "sausage", "ham", "steak", "cod", "tilapia",
		"milk", "cheese", "yogurt", "butter", "cream", "honey", "mozzarella",
		"parmesan", "cheddar", "feta", "ricotta",
	}
	meatKeywords = []string{
		"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna", "shrimp",
		"lamb", "bacon", "sausage", "ham", "steak", "cod", "tilapia",
	}
	proteinKeywords = []string{
		"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna", "shrimp",
		"egg", "tofu", "tempeh", "yogurt", "lentil", "bean", "chickpea", "steak",
		"lamb", "cottage cheese",
	}
	starchKeywords = []string{
		"rice", "pasta", "bread", "quinoa", "oat", "flour", "noodle", "tortilla",
		"potato", "sugar", "couscous", "cereal", "bagel", "spaghetti",
	}
	sugaryKeywords = []string{
		"banana", "apple", "mango", "grape", "pineapple", "orange", "honey",
		"syrup", "juice",
	}
	glutenKeywords = []string{
		"wheat", "bread", "pasta", "flour", "barley", "couscous", "noodle",
		"bagel", "cereal", "rye", "spaghetti",
	}
	nonPaleoKeywords = []string{
		"rice", "pasta", "bread", "quinoa", "oat", "flour", "noodle", "barley",
		"couscous", "cereal", "milk", "cheese", "yogurt", "cream", "bean",
		"lentil", "chickpea", "peanut", "tofu", "sugar",
	}
	mediterraneanKeywords = []string{
		"olive", "tomato", "fish", "salmon", "tuna", "chickpea", "feta", "lemon",
		"basil", "oregano", "cucumber", "spinach", "eggplant", "lentil",
	}
	processedKeywords = []string{"bacon", "sausage", "ham"}
)

// dietRules maps a diet tag to a predicate over the bound ingredient names.
var dietRules = map[string]func(names []string) bool{
	"Vegan":        func(n []string) bool { return !anyMatch(n, animalKeywords) },
	"Vegetarian":   func(n []string) bool { return !anyMatch(n, meatKeywords) },
	"High-Protein": func(n []string) bool { return anyMatch(n, proteinKeywords) },
	"Low-Carb":     func(n []string) bool { return !anyMatch(n, starchKeywords) },
	"Keto": func(n []string) bool {
		return !anyMatch(n, starchKeywords) && !anyMatch(n, sugaryKeywords)
	},
	"Paleo":       func(n []string) bool { return !anyMatch(n, nonPaleoKeywords) },
	"Gluten-Free": func(n []string) bool { return !anyMatch(n, glutenKeywords) },
	"Mediterranean": func(n []string) bool {
		return anyMatch(n, mediterraneanKeywords) && !anyMatch(n, processedKeywords)
	},
}

// InferDiets returns the candidate tags that hold for the bound ingredients,
// in candidate order and without duplicates. Unknown tags never hold.
func InferDiets(candidates, names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, diet := range candidates {
		rule, ok := dietRules[diet]
		if !ok || seen[diet] || !rule(names) {
			continue
		}
		seen[diet] = true
		out = append(out, diet)
	}
	return out
}

func anyMatch(names, keywords []string) bool {
	for _, n := range names {
		lower := strings.ToLower(n)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
