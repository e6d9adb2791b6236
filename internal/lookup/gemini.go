package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"grocery-planner/internal/catalog"
	"grocery-planner/internal/logging"
)

const geminiModel = "gemini-1.5-flash"

// Generator produces text for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}

// geminiGenerator talks to the Google Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator creates a Gemini-backed Generator.
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(geminiModel)
	model.ResponseMIMEType = "application/json"
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}
	return string(text), nil
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

// Gemini is a product lookup that asks a language model for typical retail
// products matching the query.
type Gemini struct {
	gen      Generator
	pageSize int
	log      *zap.Logger
}

// NewGemini wraps gen as a catalog lookup.
func NewGemini(gen Generator, pageSize int, logger *zap.Logger) *Gemini {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Gemini{gen: gen, pageSize: pageSize, log: logging.OrNop(logger).Named("gemini")}
}

const geminiPrompt = `List up to %d grocery products a supermarket would sell for the search %q.
Respond with a JSON array only. Each element has:
"name" (string), "category_tags" (array of Open Food Facts tags such as "en:fruits"),
"label_tags" (array, e.g. "en:organic", "en:vegan"), "quantity" (string),
"calories", "protein", "carbs", "fat", "fiber" (numbers per 100 g, omit when unknown).`

type geminiProduct struct {
	Name         string   `json:"name"`
	CategoryTags []string `json:"category_tags"`
	LabelTags    []string `json:"label_tags"`
	Quantity     string   `json:"quantity"`
	Calories     *float64 `json:"calories"`
	Protein      *float64 `json:"protein"`
	Carbs        *float64 `json:"carbs"`
	Fat          *float64 `json:"fat"`
	Fiber        *float64 `json:"fiber"`
}

// Lookup implements catalog.Lookup.
func (g *Gemini) Lookup(ctx context.Context, query string) ([]catalog.Record, error) {
	text, err := g.gen.GenerateContent(ctx, fmt.Sprintf(geminiPrompt, g.pageSize, query))
	if err != nil {
		return nil, err
	}

	records, err := parseRecords(text, g.pageSize)
	if err != nil {
		g.log.Debug("unparseable model output", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return records, nil
}

// parseRecords decodes a model answer, tolerating markdown code fences.
func parseRecords(text string, limit int) ([]catalog.Record, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var products []geminiProduct
	if err := json.Unmarshal([]byte(text), &products); err != nil {
		return nil, fmt.Errorf("failed to decode model output: %w", err)
	}

	records := make([]catalog.Record, 0, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		records = append(records, catalog.Record{
			Name:         p.Name,
			CategoryTags: p.CategoryTags,
			LabelTags:    p.LabelTags,
			Quantity:     p.Quantity,
			Nutrition: catalog.PerHundred{
				Calories: p.Calories,
				Protein:  p.Protein,
				Carbs:    p.Carbs,
				Fat:      p.Fat,
				Fiber:    p.Fiber,
			},
		})
		if limit > 0 && len(records) == limit {
			break
		}
	}
	if len(records) == 0 {
		return nil, ErrNoResults
	}
	return records, nil
}
