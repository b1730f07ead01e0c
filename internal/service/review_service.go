package service

import (
	"context"

	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/pkg/logger"
	"go.uber.org/zap"
)

// ReviewService keeps every recipe's rating_sum/rating_count equal to the
// sum and count of its reviews. Each write and the recompute share one
// transaction.
type ReviewService struct {
	store *repository.Store
}

func NewReviewService(store *repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

func (s *ReviewService) CreateReview(ctx context.Context, recipeID, reviewerID uint, rating int, comment string) (*models.Review, error) {
	review := &models.Review{
		RecipeID:   recipeID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetUserByID(ctx, reviewerID); err != nil {
			return err
		}
		if _, err := tx.Recipes.GetRecipeByID(ctx, recipeID); err != nil {
			return err
		}
		if err := tx.Reviews.CreateReview(ctx, review); err != nil {
			return err
		}
		_, err := tx.Recipes.RecomputeRating(ctx, recipeID)
		return err
	})
	if err != nil {
		logger.Log.Warn("Failed to create review",
			zap.Uint("recipe_id", recipeID),
			zap.Uint("reviewer_id", reviewerID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("recipe_id", recipeID),
		zap.Int("rating", rating),
	)
	return s.store.Reviews.GetReviewByID(ctx, review.ID)
}

// UpdateReview changes rating and comment, then refreshes the aggregate.
func (s *ReviewService) UpdateReview(ctx context.Context, id uint, rating int, comment string) (*models.Review, error) {
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		review, err := tx.Reviews.GetReviewByID(ctx, id)
		if err != nil {
			return err
		}
		review.Rating = rating
		review.Comment = comment
		if err := review.Validate(); err != nil {
			return err
		}
		if err := tx.Reviews.UpdateReview(ctx, review); err != nil {
			return err
		}
		_, err = tx.Recipes.RecomputeRating(ctx, review.RecipeID)
		return err
	})
	if err != nil {
		logger.Log.Warn("Failed to update review", zap.Uint("review_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Debug("Review updated", zap.Uint("review_id", id), zap.Int("rating", rating))
	return s.store.Reviews.GetReviewByID(ctx, id)
}

func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		review, err := tx.Reviews.GetReviewByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Reviews.DeleteReview(ctx, id); err != nil {
			return err
		}
		_, err = tx.Recipes.RecomputeRating(ctx, review.RecipeID)
		return err
	})
	if err != nil {
		logger.Log.Warn("Failed to delete review", zap.Uint("review_id", id), zap.Error(err))
		return err
	}

	logger.Log.Info("Review deleted", zap.Uint("review_id", id))
	return nil
}

// MarkHelpful records one helpful vote. The rating aggregate is unaffected.
func (s *ReviewService) MarkHelpful(ctx context.Context, id uint) (*models.Review, error) {
	if err := s.store.Reviews.IncrementHelpful(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Reviews.GetReviewByID(ctx, id)
}

func (s *ReviewService) ListReviews(ctx context.Context, recipeID uint) ([]models.Review, error) {
	if _, err := s.store.Recipes.GetRecipeByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.store.Reviews.ListReviewsByRecipe(ctx, recipeID)
}
