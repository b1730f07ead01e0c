package main

import (
	"context"
	"log"
	"os"

	"github.com/Baaaki/vwap/internal/broker"
	"github.com/Baaaki/vwap/internal/config"
	"github.com/Baaaki/vwap/internal/database"
	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/internal/service"
	"github.com/Baaaki/vwap/pkg/logger"
	"go.uber.org/zap"
)

// seed fills an empty database with three cooks, two recipes, two reviews
// and an accepted swap.
func main() {
	cfg := config.Load()
	if err := logger.Init(true); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Open(cfg.DatabaseURL, false)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Migration failed", zap.Error(err))
	}
	store := repository.NewStore(db)

	count, err := store.Users.CountUsers(ctx)
	if err != nil {
		logger.Log.Fatal("Failed to count users", zap.Error(err))
	}
	if count > 0 {
		logger.Log.Info("Database already seeded", zap.Int64("users", count))
		return
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "VeganPass123"
	}

	users := service.NewUserService(store)
	recipes := service.NewRecipeService(store)
	reviews := service.NewReviewService(store)
	swaps := service.NewSwapService(store, broker.NoopPublisher{})

	register := func(username string, level models.CookingLevel, prefs ...string) *models.User {
		u, err := users.Register(ctx, service.RegisterInput{
			Username:           username,
			Email:              username + "@example.com",
			Password:           password,
			DietaryPreferences: prefs,
			CookingLevel:       level,
		})
		if err != nil {
			logger.Log.Fatal("Failed to register user", zap.String("username", username), zap.Error(err))
		}
		return u
	}

	alice := register("alice", models.CookingAdvanced, "vegan", "gluten-free")
	bob := register("bob", models.CookingIntermediate, "vegan")
	carol := register("carol", models.CookingBeginner, "vegan", "nut-free")

	prep, cook := 5, 10
	scramble, err := recipes.CreateRecipe(ctx, alice.ID, service.RecipeInput{
		Title:        "Tofu Scramble",
		Description:  "A quick savoury breakfast.",
		Ingredients:  []string{"tofu", "turmeric"},
		Instructions: "Crumble the tofu, season with turmeric and fry for ten minutes.",
		PrepTime:     &prep,
		CookTime:     &cook,
		Servings:     2,
		Category:     "breakfast",
		Tags:         []string{"quick", "high-protein"},
		NutritionalInfo: map[string]any{
			"protein": "21g",
			"fat":     "12g",
		},
	})
	if err != nil {
		logger.Log.Fatal("Failed to create recipe", zap.Error(err))
	}

	dal, err := recipes.CreateRecipe(ctx, bob.ID, service.RecipeInput{
		Title:        "Red Lentil Dal",
		Ingredients:  []string{"red lentils", "coconut milk", "garam masala"},
		Instructions: "Simmer everything until the lentils break down.",
		Difficulty:   models.DifficultyMedium,
		Category:     "dinner",
		CuisineType:  "indian",
	})
	if err != nil {
		logger.Log.Fatal("Failed to create recipe", zap.Error(err))
	}

	if _, err := reviews.CreateReview(ctx, scramble.ID, bob.ID, 4, "Great start to the day."); err != nil {
		logger.Log.Fatal("Failed to create review", zap.Error(err))
	}
	if _, err := reviews.CreateReview(ctx, scramble.ID, carol.ID, 2, "Needed more salt."); err != nil {
		logger.Log.Fatal("Failed to create review", zap.Error(err))
	}

	swap, err := swaps.RequestSwap(ctx, bob.ID, scramble.ID, []uint{dal.ID}, "My dal for your scramble?")
	if err != nil {
		logger.Log.Fatal("Failed to request swap", zap.Error(err))
	}
	if _, err := swaps.Accept(ctx, swap.ID, alice.ID, "Deal!"); err != nil {
		logger.Log.Fatal("Failed to accept swap", zap.Error(err))
	}

	scramble, _ = recipes.GetRecipe(ctx, scramble.ID)
	logger.Log.Info("Seed data created",
		zap.Int("users", 3),
		zap.Int("recipes", 2),
		zap.Float64("tofu_scramble_rating", scramble.AverageRating()),
		zap.Uint("swap_id", swap.ID),
	)
}
