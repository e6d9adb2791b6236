// Package ingredient tags free-text ingredient names with a food category.
package ingredient

import "strings"

// Category is an ingredient's food category.
type Category string

const (
	Protein   Category = "protein"
	Vegetable Category = "vegetable"
	Fruit     Category = "fruit"
	Grain     Category = "grain"
	Dairy     Category = "dairy"
	NutsSeeds Category = "nuts_seeds"
	Herb      Category = "herb"
	Condiment Category = "condiment"
	Other     Category = "other"
)

// Rule pairs a category with the keywords that select it.
type Rule struct {
	Category Category
	Keywords []string
}

// Rules is the classification vocabulary. Order matters: the first rule with
// a substring hit wins, so "peanut butter" is dairy and "eggplant" is protein.
var Rules = []Rule{
	{Protein, []string{
		"chicken", "beef", "pork", "turkey", "fish", "salmon", "tuna", "shrimp",
		"egg", "tofu", "tempeh", "lamb", "bacon", "sausage", "ham", "steak",
		"cod", "tilapia", "lentil", "bean", "chickpea",
	}},
	{Vegetable, []string{
		"broccoli", "spinach", "carrot", "lettuce", "tomato", "pepper", "onion",
		"potato", "cucumber", "zucchini", "kale", "cabbage", "celery", "mushroom",
		"corn", "peas", "asparagus", "cauliflower", "squash", "beet", "arugula",
	}},
	{Fruit, []string{
		"apple", "banana", "orange", "berry", "berries", "grape", "mango",
		"pineapple", "peach", "pear", "lemon", "lime", "cherry", "kiwi", "melon",
		"avocado", "plum", "fig",
	}},
	{Grain, []string{
		"rice", "pasta", "bread", "quinoa", "oat", "flour", "noodle", "tortilla",
		"barley", "couscous", "cereal", "wheat", "bagel", "spaghetti",
	}},
	{Dairy, []string{
		"milk", "cheese", "yogurt", "butter", "cream", "mozzarella", "parmesan",
		"cheddar", "feta", "ricotta",
	}},
	{NutsSeeds, []string{
		"almond", "walnut", "peanut", "cashew", "pecan", "pistachio", "chia",
		"flax", "sunflower", "pumpkin seed", "sesame", "hazelnut", "seed", "nut",
	}},
	{Herb, []string{
		"basil", "parsley", "cilantro", "rosemary", "thyme", "oregano", "mint",
		"dill", "sage", "garlic", "ginger", "chive",
	}},
	{Condiment, []string{
		"oil", "vinegar", "sauce", "salt", "ketchup", "mustard", "mayo", "honey",
		"salsa", "dressing", "spice", "syrup", "jam",
	}},
}

// Categorize returns the first category, in Rules order, with a keyword that
// occurs in name. Matching is case-insensitive. Unmatched names are Other.
func Categorize(name string) Category {
	return CategorizeWith(Rules, name)
}

// CategorizeWith is Categorize over an explicit rule list.
func CategorizeWith(rules []Rule, name string) Category {
	lower := strings.ToLower(name)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}
	}
	return Other
}
