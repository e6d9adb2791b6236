// Package app wires the grocery engine together for the CLI and the bot.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"grocery-planner/internal/cart"
	"grocery-planner/internal/catalog"
	"grocery-planner/internal/clipper"
	"grocery-planner/internal/config"
	"grocery-planner/internal/database"
	"grocery-planner/internal/locator"
	"grocery-planner/internal/logging"
	"grocery-planner/internal/lookup"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/nutrition"
	"grocery-planner/internal/recipe"
	"grocery-planner/internal/shared"
)

// App holds the application's dependencies.
type App struct {
	cfg *config.Config
	log *zap.Logger
	db  *database.DB

	synth         *catalog.Synthesizer
	composer      *recipe.Composer
	locator       *locator.Locator
	carts         *cart.Repository
	recipeRepo    *recipe.Repository
	metricsStore  *metrics.Store
	recipeClipper *clipper.Clipper

	closers []io.Closer
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

type options struct {
	lookup    catalog.Lookup
	hasLookup bool
	directory *locator.Directory
}

// WithLookup replaces the configured product lookup. nil disables lookups.
func WithLookup(l catalog.Lookup) Option {
	return func(o *options) {
		o.lookup = l
		o.hasLookup = true
	}
}

// WithDirectory replaces the built-in store directory.
func WithDirectory(d *locator.Directory) Option {
	return func(o *options) {
		o.directory = d
	}
}

// New opens the database and builds every component. The catalog starts with
// the staple products, and imported recipes join the recipe book.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.OrNop(logger)

	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := &App{
		cfg:          cfg,
		log:          log.Named("app"),
		db:           db,
		carts:        cart.NewRepository(db.SQL),
		recipeRepo:   recipe.NewRepository(db.SQL, log),
		metricsStore: metrics.NewStore(db.SQL),
	}
	a.closers = append(a.closers, db)

	lk := o.lookup
	if !o.hasLookup {
		var closer io.Closer
		lk, closer, err = buildLookup(ctx, cfg, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
	}

	// Ids continue above anything a stored cart references.
	maxID, err := a.carts.MaxProductID(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	sampler := shared.NewSampler(cfg.RandomSeed)
	store := catalog.NewStore(shared.NewCounter(maxID + 1))
	store.Append(catalog.Staples()...)

	synthOpts := []catalog.Option{
		catalog.WithTimeout(cfg.LookupTimeout),
		catalog.WithRecorder(a.metricsStore),
		catalog.WithLogger(log),
	}
	if lk != nil {
		synthOpts = append(synthOpts, catalog.WithLookup(lk))
	}
	a.synth = catalog.NewSynthesizer(store, sampler, synthOpts...)

	a.composer = recipe.NewComposer(sampler, recipe.WithLogger(log))
	if _, err := a.ReloadRecipes(ctx); err != nil {
		a.Close()
		return nil, err
	}

	dir := o.directory
	if dir == nil {
		dir = locator.DefaultDirectory()
	}
	a.locator = locator.New(dir, sampler, log)
	a.recipeClipper = clipper.NewClipper(a.recipeRepo, log)

	a.log.Info("app ready",
		zap.Int("catalog", store.Len()),
		zap.Int("book", a.composer.BookSize()),
		zap.String("lookup", describeLookup(lk)),
	)
	return a, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func buildLookup(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Lookup, io.Closer, error) {
	switch cfg.LookupProvider {
	case config.ProviderNone:
		return nil, nil, nil
	case config.ProviderGemini:
		gen, err := lookup.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return lookup.NewGemini(gen, cfg.LookupPageSize, log), closerFunc(gen.Close), nil
	default:
		return lookup.NewOpenFoodFacts(cfg.LookupURL,
			lookup.WithAPIKey(cfg.CatalogAPIKey),
			lookup.WithPageSize(cfg.LookupPageSize),
			lookup.WithLogger(log),
		), nil, nil
	}
}

func describeLookup(l catalog.Lookup) string {
	if l == nil {
		return "none"
	}
	return fmt.Sprintf("%T", l)
}

// Close releases the database and lookup clients.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// Search resolves a term into products.
func (a *App) Search(ctx context.Context, term string) ([]catalog.Product, shared.SearchOutcome) {
	return a.synth.Search(ctx, term)
}

// Product returns a catalog product by id.
func (a *App) Product(id int) (catalog.Product, error) {
	return a.synth.Store().Get(id)
}

// Catalog returns every product known to this session.
func (a *App) Catalog() []catalog.Product {
	return a.synth.Store().All()
}

// AddToCart adds qty units of a catalog product to the user's cart.
func (a *App) AddToCart(ctx context.Context, userID string, productID, qty int) (catalog.Product, error) {
	p, err := a.synth.Store().Get(productID)
	if err != nil {
		return catalog.Product{}, err
	}
	if err := a.carts.Add(ctx, userID, p, qty); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// SetQuantity replaces the quantity of a line already in the user's cart.
// It returns false if the product is not in the cart.
func (a *App) SetQuantity(ctx context.Context, userID string, productID, qty int) (bool, error) {
	return a.carts.SetQuantity(ctx, userID, productID, qty)
}

// RemoveFromCart drops one line from the user's cart.
func (a *App) RemoveFromCart(ctx context.Context, userID string, productID int) (bool, error) {
	return a.carts.Remove(ctx, userID, productID)
}

// Cart loads the user's cart.
func (a *App) Cart(ctx context.Context, userID string) (*cart.Cart, error) {
	return a.carts.Get(ctx, userID)
}

// ClearCart empties the user's cart.
func (a *App) ClearCart(ctx context.Context, userID string) (int64, error) {
	return a.carts.Clear(ctx, userID)
}

// RecipesFor suggests recipes for the given item names.
func (a *App) RecipesFor(items []string) []recipe.GeneratedRecipe {
	return a.composer.Generate(items)
}

// CartRecipes suggests recipes for the user's cart.
func (a *App) CartRecipes(ctx context.Context, userID string) ([]recipe.GeneratedRecipe, error) {
	c, err := a.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.composer.Generate(c.Names()), nil
}

// NutritionFor aggregates catalog products with explicit serving multipliers.
func (a *App) NutritionFor(ids []int, servings map[int]float64) nutrition.Totals {
	return nutrition.Aggregate(ids, servings, a.synth.Store())
}

// CartNutrition aggregates the user's cart, using quantities as servings.
func (a *App) CartNutrition(ctx context.Context, userID string) (nutrition.Totals, error) {
	c, err := a.carts.Get(ctx, userID)
	if err != nil {
		return nutrition.Totals{}, err
	}
	return nutrition.Aggregate(c.IDs(), c.Multipliers(), c), nil
}

// NearestStores ranks stores around a coordinate.
func (a *App) NearestStores(lat, lng float64) ([]locator.RankedStore, locator.Region) {
	return a.locator.Nearest(lat, lng)
}

// LocateStores ranks stores around the position reported by geo.
func (a *App) LocateStores(ctx context.Context, geo locator.Geolocator) locator.Result {
	return a.locator.Locate(ctx, geo)
}

// DailyUsage reports search metrics for the last days.
func (a *App) DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	return a.metricsStore.GetDailyUsage(ctx, days)
}

// CleanupMetrics prunes search metrics older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	return a.metricsStore.Cleanup(ctx, days)
}

// Health reports process and data directory statistics.
func (a *App) Health() metrics.SysHealth {
	return metrics.GetSysHealth(filepath.Dir(a.cfg.DatabasePath))
}
