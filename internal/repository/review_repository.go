package repository

import (
	"context"

	"github.com/Baaaki/vwap/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceReview = "review"

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReview fails with a UniquenessViolation when the reviewer already
// reviewed this recipe (unique_recipe_reviewer).
func (r *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
	return translate(err, resourceReview, review.ID, "recipe and reviewer")
}

func (r *ReviewRepository) GetReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Scopes(withRecipeIDs("Reviewer.Recipes")).
		First(&review, id).Error
	if err != nil {
		return nil, translate(err, resourceReview, id, "")
	}
	return &review, nil
}

// GetReviewByRecipeAndReviewer returns nil, nil when the pair has no review.
func (r *ReviewRepository) GetReviewByRecipeAndReviewer(ctx context.Context, recipeID, reviewerID uint) (*models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND reviewer_id = ?", recipeID, reviewerID).
		Limit(1).
		Find(&reviews).Error
	if err != nil || len(reviews) == 0 {
		return nil, err
	}
	return &reviews[0], nil
}

func (r *ReviewRepository) ListReviewsByRecipe(ctx context.Context, recipeID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Scopes(withRecipeIDs("Reviewer.Recipes")).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

// UpdateReview writes rating, comment and helpful_count.
func (r *ReviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).
		Model(review).
		Select("rating", "comment", "helpful_count").
		Updates(review)
	if result.Error != nil {
		return translate(result.Error, resourceReview, review.ID, "")
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceReview, review.ID)
	}
	return nil
}

// IncrementHelpful adds one helpful vote in a single UPDATE.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Review{ID: id}).
		Update("helpful_count", gorm.Expr("helpful_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceReview, id)
	}
	return nil
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceReview, id)
	}
	return nil
}
