package service

import (
	"context"

	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/pkg/logger"
	"go.uber.org/zap"
)

// RecipeInput carries the author-editable recipe fields. Zero values fall
// back to the column defaults on create.
type RecipeInput struct {
	Title              string
	Description        string
	Ingredients        []string
	Instructions       string
	PrepTime           *int
	CookTime           *int
	TotalTime          *int
	Servings           int
	Difficulty         models.Difficulty
	Category           string
	Tags               []string
	CuisineType        string
	ImageURL           string
	VideoURL           string
	CaloriesPerServing *int
	NutritionalInfo    map[string]any
	IsPublic           *bool
	IsSwappable        *bool
}

func (in RecipeInput) apply(r *models.Recipe) {
	r.Title = in.Title
	r.Description = in.Description
	r.Ingredients = models.StringList(in.Ingredients)
	if r.Ingredients == nil {
		r.Ingredients = models.StringList{}
	}
	r.Instructions = in.Instructions
	r.PrepTime = in.PrepTime
	r.CookTime = in.CookTime
	r.TotalTime = in.TotalTime
	if in.Servings > 0 {
		r.Servings = in.Servings
	}
	if in.Difficulty != "" {
		r.Difficulty = in.Difficulty
	}
	r.Category = in.Category
	if in.Tags != nil {
		r.Tags = models.StringList(in.Tags)
	}
	r.CuisineType = in.CuisineType
	r.ImageURL = in.ImageURL
	r.VideoURL = in.VideoURL
	r.CaloriesPerServing = in.CaloriesPerServing
	if in.NutritionalInfo != nil {
		r.NutritionalInfo = models.NutritionInfo(in.NutritionalInfo)
	}
	if in.IsPublic != nil {
		r.IsPublic = *in.IsPublic
	}
	if in.IsSwappable != nil {
		r.IsSwappable = *in.IsSwappable
	}
}

type RecipeService struct {
	store *repository.Store
}

func NewRecipeService(store *repository.Store) *RecipeService {
	return &RecipeService{store: store}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	if _, err := s.store.Users.GetUserByID(ctx, authorID); err != nil {
		return nil, err
	}

	recipe := models.NewRecipe(authorID, in.Title, in.Instructions, in.Ingredients)
	in.apply(recipe)
	if err := recipe.Validate(); err != nil {
		logger.Log.Warn("Recipe validation failed", zap.Uint("author_id", authorID), zap.Error(err))
		return nil, err
	}

	if err := s.store.Recipes.CreateRecipe(ctx, recipe); err != nil {
		logger.Log.Error("Failed to create recipe", zap.Uint("author_id", authorID), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Recipe created",
		zap.Uint("recipe_id", recipe.ID),
		zap.Uint("author_id", authorID),
		zap.String("title", recipe.Title),
	)
	return s.store.Recipes.GetRecipeByID(ctx, recipe.ID)
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.store.Recipes.GetRecipeByID(ctx, id)
}

// UpdateRecipe replaces the editable fields. The rating aggregate and the
// author stay as stored.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.store.Recipes.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(recipe)
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Recipes.UpdateRecipe(ctx, recipe); err != nil {
		logger.Log.Error("Failed to update recipe", zap.Uint("recipe_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Debug("Recipe updated", zap.Uint("recipe_id", id))
	return s.store.Recipes.GetRecipeByID(ctx, id)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, id uint) error {
	if err := s.store.Recipes.DeleteRecipe(ctx, id); err != nil {
		logger.Log.Warn("Failed to delete recipe", zap.Uint("recipe_id", id), zap.Error(err))
		return err
	}
	logger.Log.Info("Recipe deleted", zap.Uint("recipe_id", id))
	return nil
}

func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uint) ([]models.Recipe, error) {
	return s.store.Recipes.ListRecipesByAuthor(ctx, authorID)
}
