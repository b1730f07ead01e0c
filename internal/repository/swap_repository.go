package repository

import (
	"context"

	"github.com/Baaaki/vwap/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceSwap = "recipe swap"

type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) *SwapRepository {
	return &SwapRepository{db: db}
}

func (r *SwapRepository) CreateSwap(ctx context.Context, swap *models.RecipeSwap) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(swap).Error
	return translate(err, resourceSwap, swap.ID, "")
}

// GetSwapByID loads the swap with both participants and the requested recipe.
func (r *SwapRepository) GetSwapByID(ctx context.Context, id uint) (*models.RecipeSwap, error) {
	var swap models.RecipeSwap
	err := r.db.WithContext(ctx).
		Scopes(withSwapRelations).
		First(&swap, id).Error
	if err != nil {
		return nil, translate(err, resourceSwap, id, "")
	}
	return &swap, nil
}

// ListSwapsByParticipant returns swaps the user sent or received, newest first.
func (r *SwapRepository) ListSwapsByParticipant(ctx context.Context, userID uint) ([]models.RecipeSwap, error) {
	var swaps []models.RecipeSwap
	err := r.db.WithContext(ctx).
		Scopes(withSwapRelations).
		Where("requester_id = ? OR owner_id = ?", userID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&swaps).Error
	return swaps, err
}

// UpdateSwap persists the mutable swap columns after a status change.
func (r *SwapRepository) UpdateSwap(ctx context.Context, swap *models.RecipeSwap) error {
	result := r.db.WithContext(ctx).
		Model(swap).
		Select("status", "response_message", "completed_at", "message", "offered_recipe_ids").
		Updates(swap)
	if result.Error != nil {
		return translate(result.Error, resourceSwap, swap.ID, "")
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceSwap, swap.ID)
	}
	return nil
}

func (r *SwapRepository) DeleteSwap(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.RecipeSwap{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceSwap, id)
	}
	return nil
}

func withSwapRelations(db *gorm.DB) *gorm.DB {
	return db.
		Scopes(withRecipeIDs("Requester.Recipes"), withRecipeIDs("Owner.Recipes")).
		Preload("Recipe")
}
