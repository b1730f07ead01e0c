package testutil

import (
	"testing"

	"github.com/Baaaki/vwap/internal/models"
	"gorm.io/gorm"
)

// DefaultPassword is the password every fixture user is created with.
const DefaultPassword = "Test123456"

// CreateTestUser inserts a user with a hashed DefaultPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, username+"@example.com")
	if err := user.SetPassword(DefaultPassword); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Omit("Recipes").Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateTestRecipe inserts a public, swappable recipe owned by author.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Recipe {
	t.Helper()

	recipe := models.NewRecipe(author.ID, title, "Mix everything and serve.", []string{"chickpeas", "tahini"})
	if err := db.Omit("Author").Create(recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe %s: %v", title, err)
	}
	return recipe
}

// CreateTestReview inserts a review without touching the recipe aggregate.
func CreateTestReview(t *testing.T, db *gorm.DB, recipe *models.Recipe, reviewer *models.User, rating int) *models.Review {
	t.Helper()

	review := &models.Review{
		RecipeID:   recipe.ID,
		ReviewerID: reviewer.ID,
		Rating:     rating,
	}
	if err := db.Omit("Recipe", "Reviewer").Create(review).Error; err != nil {
		t.Fatalf("Failed to create review: %v", err)
	}
	return review
}

// CreateTestSwap inserts a pending swap for recipe requested by requester.
func CreateTestSwap(t *testing.T, db *gorm.DB, requester *models.User, recipe *models.Recipe, offered ...uint) *models.RecipeSwap {
	t.Helper()

	swap := models.NewRecipeSwap(requester.ID, recipe.AuthorID, recipe.ID, offered, "Trade?")
	if err := db.Omit("Requester", "Owner", "Recipe").Create(swap).Error; err != nil {
		t.Fatalf("Failed to create swap: %v", err)
	}
	return swap
}
