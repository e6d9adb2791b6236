// Package lookup implements the external product-lookup collaborators used by
// the catalog synthesizer.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"grocery-planner/internal/catalog"
	"grocery-planner/internal/logging"
)

// ErrNoResults is returned when a source answers with zero products.
var ErrNoResults = errors.New("no products found")

const (
	defaultPageSize = 8
	searchAudience  = "/cgi/search.pl"
)

// offProduct is one entry of the search response. Only the fields the
// catalog maps are decoded.
type offProduct struct {
	ProductName   string         `json:"product_name"`
	GenericName   string         `json:"generic_name"`
	CategoriesTag []string       `json:"categories_tags"`
	LabelsTags    []string       `json:"labels_tags"`
	ImageURL      string         `json:"image_front_url"`
	Quantity      string         `json:"quantity"`
	Nutriments    map[string]any `json:"nutriments"`
}

type offSearchResponse struct {
	Count    int          `json:"count"`
	Products []offProduct `json:"products"`
}

// OpenFoodFacts queries an Open Food Facts compatible search endpoint.
type OpenFoodFacts struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	pageSize   int
	now        func() time.Time
	log        *zap.Logger
}

// Option configures an OpenFoodFacts client.
type Option func(*OpenFoodFacts)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenFoodFacts) {
		o.httpClient = c
	}
}

// WithAPIKey signs every request with a bearer token derived from key
// ("id:hexsecret"). An empty key disables signing.
func WithAPIKey(key string) Option {
	return func(o *OpenFoodFacts) {
		o.apiKey = key
	}
}

// WithPageSize caps how many records one search asks for.
func WithPageSize(n int) Option {
	return func(o *OpenFoodFacts) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *OpenFoodFacts) {
		o.log = logging.OrNop(l).Named("openfoodfacts")
	}
}

// NewOpenFoodFacts creates a client for the search API rooted at baseURL.
func NewOpenFoodFacts(baseURL string, opts ...Option) *OpenFoodFacts {
	o := &OpenFoodFacts{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		pageSize:   defaultPageSize,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Lookup searches for query and maps every named product into a record.
func (o *OpenFoodFacts) Lookup(ctx context.Context, query string) ([]catalog.Record, error) {
	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(o.pageSize))

	endpoint := fmt.Sprintf("%s%s?%s", o.baseURL, searchAudience, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "grocery-planner/1.0")

	if o.apiKey != "" {
		token, err := signToken(o.apiKey, searchAudience, o.now())
		if err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api error: status %d", resp.StatusCode)
	}

	var body offSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	records := make([]catalog.Record, 0, len(body.Products))
	for _, p := range body.Products {
		name := strings.TrimSpace(p.ProductName)
		if name == "" {
			name = strings.TrimSpace(p.GenericName)
		}
		if name == "" {
			continue
		}
		records = append(records, catalog.Record{
			Name:         name,
			CategoryTags: p.CategoriesTag,
			LabelTags:    p.LabelsTags,
			ImageURL:     p.ImageURL,
			Quantity:     p.Quantity,
			Nutrition: catalog.PerHundred{
				Calories: nutriment(p.Nutriments, "energy-kcal_100g"),
				Protein:  nutriment(p.Nutriments, "proteins_100g"),
				Carbs:    nutriment(p.Nutriments, "carbohydrates_100g"),
				Fat:      nutriment(p.Nutriments, "fat_100g"),
				Fiber:    nutriment(p.Nutriments, "fiber_100g"),
			},
		})
	}
	if len(records) == 0 {
		return nil, ErrNoResults
	}

	o.log.Debug("lookup succeeded", zap.String("query", query), zap.Int("records", len(records)))
	return records, nil
}

// nutriment reads a per-100g value. The API reports numbers either as JSON
// numbers or as numeric strings.
func nutriment(m map[string]any, key string) *float64 {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
