package repository

import (
	"context"

	"github.com/Baaaki/vwap/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceRecipe = "recipe"

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
	return translate(err, resourceRecipe, recipe.ID, "")
}

// GetRecipeByID loads the recipe with its author.
func (r *RecipeRepository) GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Scopes(withRecipeIDs("Author.Recipes")).
		First(&recipe, id).Error
	if err != nil {
		return nil, translate(err, resourceRecipe, id, "")
	}
	return &recipe, nil
}

// GetRecipesByIDs returns the recipes that exist among ids, in id order,
// with their authors.
func (r *RecipeRepository) GetRecipesByIDs(ctx context.Context, ids []uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if len(ids) == 0 {
		return recipes, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(withRecipeIDs("Author.Recipes")).
		Where("id IN ?", ids).
		Order("id").
		Find(&recipes).Error
	return recipes, err
}

func (r *RecipeRepository) ListRecipesByAuthor(ctx context.Context, authorID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Scopes(withRecipeIDs("Author.Recipes")).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recipes).Error
	return recipes, err
}

// UpdateRecipe writes the editable columns. The rating aggregate and the
// author are never changed through here.
func (r *RecipeRepository) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	result := r.db.WithContext(ctx).
		Model(recipe).
		Select("*").
		Omit("id", "created_at", "author_id", "rating_sum", "rating_count", clause.Associations).
		Updates(recipe)
	if result.Error != nil {
		return translate(result.Error, resourceRecipe, recipe.ID, "")
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceRecipe, recipe.ID)
	}
	return nil
}

// DeleteRecipe removes the recipe with its reviews and swaps.
func (r *RecipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFound(resourceRecipe, id)
		}
		return deleteRecipesCascade(tx, []uint{id})
	})
}

// RecomputeRating rebuilds rating_sum and rating_count from the reviews
// table and returns the refreshed recipe.
func (r *RecipeRepository) RecomputeRating(ctx context.Context, id uint) (*models.Recipe, error) {
	if err := recomputeRatings(r.db.WithContext(ctx), []uint{id}); err != nil {
		return nil, err
	}
	return r.GetRecipeByID(ctx, id)
}
