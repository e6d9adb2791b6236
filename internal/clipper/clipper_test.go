package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"grocery-planner/internal/recipe"
)

// --- Mocks ---
type MockSaver struct {
	Saved       []*recipe.Recipe
	ShouldError bool
}

func (m *MockSaver) Save(ctx context.Context, rec *recipe.Recipe) error {
	if m.ShouldError {
		return fmt.Errorf("mock error")
	}
	rec.ID = fmt.Sprintf("id-%d", len(m.Saved)+1)
	m.Saved = append(m.Saved, rec)
	return nil
}

// --- Tests ---

const structuredPage = `
<html>
	<head>
		<title>Weeknight Dinners | Example Kitchen</title>
		<script type="application/ld+json">
		{
			"@context": "https://schema.org",
			"@graph": [
				{"@type": "WebPage", "name": "Example Kitchen"},
				{
					"@type": ["Recipe"],
					"name": "Garlic Chicken Rice Bowl",
					"description": "A quick bowl.",
					"recipeIngredient": [
						"1 lb boneless chicken breasts, cubed",
						"2 cups cooked brown rice",
						"3 cloves garlic, minced",
						"1/2 tsp smoked paprika",
						"2 chicken thighs"
					],
					"nutrition": {"calories": "540 kcal"},
					"suitableForDiet": ["https://schema.org/GlutenFreeDiet", "https://schema.org/UnknownDiet"]
				}
			]
		}
		</script>
	</head>
	<body><h1>Ignored Heading</h1></body>
</html>`

const markupPage = `
<html>
	<head><meta name="description" content="Creamy and green."></head>
	<body>
		<nav>Home | Recipes</nav>
		<h1>Spinach Smoothie</h1>
		<div class="ads">Buy stuff!</div>
		<ul class="ingredients">
			<li>1 banana</li>
			<li>2 handfuls baby spinach</li>
			<li>1 cup almond milk</li>
			<li>½ cup frozen mangoes (optional)</li>
		</ul>
		<footer>Copyright 2024</footer>
	</body>
</html>`

const looseStructuredPage = `
<html>
	<head>
		<script type="application/ld+json">
		{
			"@type": "Recipe",
			"name": "Tomato Soup",
			"recipeIngredient": "4 ripe tomatoes\n1 onion, diced\n2 cups vegetable stock",
			"nutrition": {"calories": 249.6},
			"suitableForDiet": "https://schema.org/VeganDiet"
		}
		</script>
	</head>
</html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClipURL(t *testing.T) {
	ctx := context.Background()

	t.Run("StructuredData", func(t *testing.T) {
		ts := serve(t, http.StatusOK, structuredPage)
		saver := &MockSaver{}

		rec, err := NewClipper(saver, nil).ClipURL(ctx, ts.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Title != "Garlic Chicken Rice Bowl" {
			t.Errorf("Expected title from JSON-LD, got %q", rec.Title)
		}
		want := []string{"chicken", "rice", "garlic", "paprika"}
		if fmt.Sprint(rec.Ingredients) != fmt.Sprint(want) {
			t.Errorf("Expected ingredients %v, got %v", want, rec.Ingredients)
		}
		if rec.Calories != 540 {
			t.Errorf("Expected 540 calories, got %d", rec.Calories)
		}
		if len(rec.DietTypes) != 1 || rec.DietTypes[0] != "Gluten-Free" {
			t.Errorf("Expected [Gluten-Free], got %v", rec.DietTypes)
		}
		if rec.SourceURL != ts.URL {
			t.Errorf("Expected source url %s, got %s", ts.URL, rec.SourceURL)
		}
		if len(saver.Saved) != 1 || rec.ID != "id-1" {
			t.Errorf("Expected recipe to be saved once, got %d", len(saver.Saved))
		}
	})

	t.Run("NumericCaloriesAndSingleStringIngredients", func(t *testing.T) {
		ts := serve(t, http.StatusOK, looseStructuredPage)

		rec, err := NewClipper(&MockSaver{}, nil).ClipURL(ctx, ts.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Title != "Tomato Soup" {
			t.Errorf("Expected title from JSON-LD, got %q", rec.Title)
		}
		want := []string{"tomato", "onion", "stock"}
		if fmt.Sprint(rec.Ingredients) != fmt.Sprint(want) {
			t.Errorf("Expected ingredients %v, got %v", want, rec.Ingredients)
		}
		if rec.Calories != 250 {
			t.Errorf("Expected 250 calories, got %d", rec.Calories)
		}
		if len(rec.DietTypes) != 1 || rec.DietTypes[0] != "Vegan" {
			t.Errorf("Expected [Vegan], got %v", rec.DietTypes)
		}
	})

	t.Run("MarkupFallback", func(t *testing.T) {
		ts := serve(t, http.StatusOK, markupPage)

		rec, err := NewClipper(&MockSaver{}, nil).ClipURL(ctx, ts.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Title != "Spinach Smoothie" {
			t.Errorf("Expected title from h1, got %q", rec.Title)
		}
		if rec.Description != "Creamy and green." {
			t.Errorf("Expected meta description, got %q", rec.Description)
		}
		want := []string{"banana", "spinach", "milk", "mango"}
		if fmt.Sprint(rec.Ingredients) != fmt.Sprint(want) {
			t.Errorf("Expected ingredients %v, got %v", want, rec.Ingredients)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		ts := serve(t, http.StatusNotFound, "gone")
		if _, err := NewClipper(&MockSaver{}, nil).ClipURL(ctx, ts.URL); err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
	})

	t.Run("NoIngredients", func(t *testing.T) {
		ts := serve(t, http.StatusOK, "<html><body><h1>About us</h1></body></html>")
		if _, err := NewClipper(&MockSaver{}, nil).ClipURL(ctx, ts.URL); err == nil {
			t.Fatal("Expected an error for a page without ingredients, got nil")
		}
	})

	t.Run("SaveError", func(t *testing.T) {
		ts := serve(t, http.StatusOK, structuredPage)
		if _, err := NewClipper(&MockSaver{ShouldError: true}, nil).ClipURL(ctx, ts.URL); err == nil {
			t.Fatal("Expected save error, got nil")
		}
	})
}

func TestParseCalories(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"540 kcal", 540},
		{"about 310 calories", 310},
		{float64(250), 250},
		{199.5, 200},
		{float64(-5), 0},
		{nil, 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := parseCalories(tt.in); got != tt.want {
			t.Errorf("parseCalories(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestKeyword(t *testing.T) {
	tests := map[string]string{
		"2 cups cooked brown rice":        "rice",
		"3 cloves garlic, minced":         "garlic",
		"1/2 tsp smoked paprika":          "paprika",
		"4 large eggs":                    "egg",
		"1 (14 oz) can chickpeas":         "chickpea",
		"½ cup frozen mangoes (optional)": "mango",
		"2 Tbsp tahini":                   "tahini",
		"  ":                              "",
		"12":                              "",
	}
	for in, want := range tests {
		if got := Keyword(in); got != want {
			t.Errorf("Keyword(%q) = %q, want %q", in, got, want)
		}
	}
}
