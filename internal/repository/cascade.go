package repository

import (
	"github.com/Baaaki/vwap/internal/models"
	"gorm.io/gorm"
)

// Delete cascades. Each runs inside the caller's transaction.
//
//   user   -> recipes (-> reviews, swaps), reviews written by the user
//             (ratings of the reviewed recipes are recomputed), follows,
//             collections; swaps on surviving recipes lose the participant.
//   recipe -> reviews, swaps

func deleteUserCascade(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NotFound(resourceUser, userID)
	}

	var recipeIDs []uint
	if err := tx.Model(&models.Recipe{}).Where("author_id = ?", userID).Pluck("id", &recipeIDs).Error; err != nil {
		return err
	}
	if err := deleteRecipesCascade(tx, recipeIDs); err != nil {
		return err
	}

	var reviewedIDs []uint
	if err := tx.Model(&models.Review{}).
		Where("reviewer_id = ?", userID).
		Distinct().
		Pluck("recipe_id", &reviewedIDs).Error; err != nil {
		return err
	}
	if err := tx.Where("reviewer_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := recomputeRatings(tx, reviewedIDs); err != nil {
		return err
	}

	if err := detachSwapParticipant(tx, userID); err != nil {
		return err
	}

	if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).Delete(&models.UserFollow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.RecipeCollection{}).Error; err != nil {
		return err
	}

	return tx.Delete(&models.User{}, userID).Error
}

func deleteRecipesCascade(tx *gorm.DB, recipeIDs []uint) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.RecipeSwap{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", recipeIDs).Delete(&models.Recipe{}).Error
}

// detachSwapParticipant clears the user from swaps whose recipe survives.
func detachSwapParticipant(tx *gorm.DB, userID uint) error {
	if err := tx.Model(&models.RecipeSwap{}).
		Where("requester_id = ?", userID).
		Update("requester_id", nil).Error; err != nil {
		return err
	}
	return tx.Model(&models.RecipeSwap{}).
		Where("owner_id = ?", userID).
		Update("owner_id", nil).Error
}

type ratingAggregate struct {
	Total int
	Votes int
}

// recomputeRatings rebuilds rating_sum/rating_count for each recipe from
// the reviews that currently exist.
func recomputeRatings(tx *gorm.DB, recipeIDs []uint) error {
	for _, id := range recipeIDs {
		var agg ratingAggregate
		if err := tx.Model(&models.Review{}).
			Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS votes").
			Where("recipe_id = ?", id).
			Scan(&agg).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{ID: id}).
			Updates(map[string]interface{}{
				"rating_sum":   agg.Total,
				"rating_count": agg.Votes,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}
