// Package clipper imports recipes from web pages into the recipe book.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/logging"
	"grocery-planner/internal/recipe"
)

// RecipeSaver persists imported recipes.
type RecipeSaver interface {
	Save(ctx context.Context, rec *recipe.Recipe) error
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	httpClient *http.Client
	saver      RecipeSaver
	log        *zap.Logger
}

// NewClipper creates a new Clipper instance.
func NewClipper(saver RecipeSaver, logger *zap.Logger) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		saver:      saver,
		log:        logging.OrNop(logger).Named("clipper"),
	}
}

// ClipURL fetches the page, extracts the recipe and saves it.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	rec, ok := fromStructuredData(doc)
	if !ok {
		rec = fromMarkup(doc)
	}
	if rec.Title == "" {
		return nil, fmt.Errorf("no recipe title found at %s", url)
	}
	if len(rec.Ingredients) == 0 {
		return nil, fmt.Errorf("no ingredients found at %s", url)
	}
	rec.SourceURL = url

	if err := c.saver.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	c.log.Info("recipe imported",
		zap.String("url", url),
		zap.String("title", rec.Title),
		zap.Int("ingredients", len(rec.Ingredients)),
		zap.Bool("structured", ok),
	)
	return rec, nil
}

func (c *Clipper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "grocery-planner/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	doc.Find("style, nav, footer, iframe, ads, .ads, #ads").Remove()
	return doc, nil
}

// ldRecipe is the subset of a schema.org Recipe we read.
type ldRecipe struct {
	Type        any    `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Ingredients any    `json:"recipeIngredient"`
	Diets       any    `json:"suitableForDiet"`
	Nutrition   struct {
		Calories any `json:"calories"`
	} `json:"nutrition"`
	Graph []json.RawMessage `json:"@graph"`
}

func (r ldRecipe) isRecipe() bool {
	switch t := r.Type.(type) {
	case string:
		return t == "Recipe"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

// fromStructuredData reads the first schema.org Recipe in the page's JSON-LD
// blocks, including ones nested in @graph or top-level arrays.
func fromStructuredData(doc *goquery.Document) (*recipe.Recipe, bool) {
	var found *recipe.Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if r, ok := findLDRecipe([]byte(s.Text())); ok {
			found = r
			return false
		}
		return true
	})
	return found, found != nil
}

func findLDRecipe(raw []byte) (*recipe.Recipe, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if r, ok := findLDRecipe(item); ok {
				return r, true
			}
		}
		return nil, false
	}

	var node ldRecipe
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, false
	}
	if node.isRecipe() {
		return &recipe.Recipe{
			Title:       strings.TrimSpace(node.Name),
			Description: strings.TrimSpace(node.Description),
			Ingredients: keywords(textList(node.Ingredients)),
			Calories:    parseCalories(node.Nutrition.Calories),
			DietTypes:   diets(node.Diets),
		}, true
	}
	for _, item := range node.Graph {
		if r, ok := findLDRecipe(item); ok {
			return r, true
		}
	}
	return nil, false
}

// fromMarkup is the fallback for pages without structured data.
func fromMarkup(doc *goquery.Document) *recipe.Recipe {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var lines []string
	doc.Find(`[itemprop="recipeIngredient"], .ingredients li, .wprm-recipe-ingredient, .recipe-ingredients li`).Each(func(_ int, s *goquery.Selection) {
		lines = append(lines, s.Text())
	})

	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	return &recipe.Recipe{
		Title:       title,
		Description: strings.TrimSpace(desc),
		Ingredients: keywords(lines),
	}
}

var (
	quantityPrefix = regexp.MustCompile(`^[\d\s/½¼¾⅓⅔.,-]+`)
	parenthetical  = regexp.MustCompile(`\([^)]*\)`)
	leadingInt     = regexp.MustCompile(`\d+`)
)

// keywords reduces ingredient lines to the short lower-case keywords the
// recipe book matches against cart item names. Duplicates are dropped.
func keywords(lines []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range lines {
		kw := Keyword(line)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

// Keyword picks the classifier keyword that occurs in line, or else the last
// word of its noun phrase with a plural "s" removed.
func Keyword(line string) string {
	s := strings.ToLower(strings.Join(strings.Fields(line), " "))
	s = parenthetical.ReplaceAllString(s, "")
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(quantityPrefix.ReplaceAllString(s, ""))
	if s == "" {
		return ""
	}

	for _, rule := range ingredient.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(s, kw) {
				return kw
			}
		}
	}

	words := strings.Fields(s)
	last := words[len(words)-1]
	if len(last) > 3 && strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss") {
		last = strings.TrimSuffix(last, "s")
	}
	return last
}

// parseCalories reads "540 kcal" style strings as well as bare numbers.
func parseCalories(v any) int {
	var s string
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return int(math.Round(t))
	case string:
		s = t
	default:
		return 0
	}
	m := leadingInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

var schemaDiets = map[string]string{
	"VeganDiet":      "Vegan",
	"VegetarianDiet": "Vegetarian",
	"GlutenFreeDiet": "Gluten-Free",
	"LowCalorieDiet": "Low-Calorie",
	"LowFatDiet":     "Low-Fat",
	"DiabeticDiet":   "Diabetic",
	"HalalDiet":      "Halal",
	"KosherDiet":     "Kosher",
	"LowLactoseDiet": "Low-Lactose",
	"LowSaltDiet":    "Low-Salt",
	"HinduDiet":      "Hindu",
}

// textList flattens a JSON-LD value given either as one string or as a list.
// A single string is split into lines.
func textList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		out = strings.Split(t, "\n")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func diets(v any) []string {
	var out []string
	for _, r := range textList(v) {
		name := r[strings.LastIndex(r, "/")+1:]
		if d, ok := schemaDiets[name]; ok {
			out = append(out, d)
		}
	}
	return out
}
