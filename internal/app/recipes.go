package app

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"grocery-planner/internal/recipe"
)

// ImportRecipe clips a recipe page, stores it and adds it to the recipe book.
func (a *App) ImportRecipe(ctx context.Context, rawURL string) (*recipe.Recipe, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid recipe url %q", rawURL)
	}

	rec, err := a.recipeClipper.ClipURL(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to import recipe: %w", err)
	}
	a.composer.AddToBook(*rec)
	return rec, nil
}

// ImportedRecipes lists every imported recipe.
func (a *App) ImportedRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipeRepo.List(ctx)
}

// DeleteRecipe removes an imported recipe from storage and the recipe book.
// It returns false when no recipe has that id.
func (a *App) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	rec, err := a.recipeRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	if err := a.recipeRepo.Delete(ctx, id); err != nil {
		return false, err
	}
	a.composer.RemoveFromBook(id)
	a.log.Info("recipe deleted", zap.String("id", id), zap.String("title", rec.Title))
	return true, nil
}

// RecipeStats counts imported recipes and the current recipe book.
func (a *App) RecipeStats(ctx context.Context) (recipe.Stats, error) {
	n, err := a.recipeRepo.Count(ctx)
	if err != nil {
		return recipe.Stats{}, err
	}
	return recipe.Stats{Imported: n, Book: a.composer.BookSize()}, nil
}

// ReloadRecipes re-reads imported recipes into the recipe book and returns
// how many were loaded.
func (a *App) ReloadRecipes(ctx context.Context) (int, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	a.composer.AddToBook(recipes...)
	a.log.Debug("recipe book reloaded", zap.Int("imported", len(recipes)))
	return len(recipes), nil
}
