package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Baaaki/vwap/internal/broker"
	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/internal/service"
	"github.com/Baaaki/vwap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// recordingPublisher keeps every event in memory; fail makes Publish error.
type recordingPublisher struct {
	mu     sync.Mutex
	events []broker.SwapEvent
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, event broker.SwapEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type ServiceIntegrationTestSuite struct {
	suite.Suite
	testDB    *testutil.TestDatabase
	ctx       context.Context
	clock     time.Time
	publisher *recordingPublisher

	users   *service.UserService
	recipes *service.RecipeService
	reviews *service.ReviewService
	swaps   *service.SwapService
}

func (s *ServiceIntegrationTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.ctx = context.Background()
}

func (s *ServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *ServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	store := repository.NewStore(s.testDB.DB)
	s.clock = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.publisher = &recordingPublisher{}

	s.users = service.NewUserService(store)
	s.recipes = service.NewRecipeService(store)
	s.reviews = service.NewReviewService(store)
	s.swaps = service.NewSwapService(store, s.publisher, service.WithClock(func() time.Time { return s.clock }))
}

func (s *ServiceIntegrationTestSuite) register(username string) *models.User {
	user, err := s.users.Register(s.ctx, service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "Secret123",
	})
	require.NoError(s.T(), err)
	return user
}

func (s *ServiceIntegrationTestSuite) recipe(author *models.User, title string) *models.Recipe {
	recipe, err := s.recipes.CreateRecipe(s.ctx, author.ID, service.RecipeInput{
		Title:        title,
		Ingredients:  []string{"tofu", "turmeric"},
		Instructions: "Crumble and fry.",
	})
	require.NoError(s.T(), err)
	return recipe
}

// Test: the documented alice/bob/carol walkthrough
func (s *ServiceIntegrationTestSuite) TestEndToEnd_AverageRating() {
	alice, err := s.users.Register(s.ctx, service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Secret123",
	})
	require.NoError(s.T(), err)
	bob := s.register("bob")
	carol := s.register("carol")

	scramble, err := s.recipes.CreateRecipe(s.ctx, alice.ID, service.RecipeInput{
		Title:        "Tofu Scramble",
		Ingredients:  []string{"tofu", "turmeric"},
		Instructions: "Crumble and fry.",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StringList{"tofu", "turmeric"}, scramble.Ingredients)
	assert.Equal(s.T(), 0.0, scramble.AverageRating())

	_, err = s.reviews.CreateReview(s.ctx, scramble.ID, bob.ID, 4, "Great")
	require.NoError(s.T(), err)
	loaded, err := s.recipes.GetRecipe(s.ctx, scramble.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4.0, loaded.AverageRating())

	_, err = s.reviews.CreateReview(s.ctx, scramble.ID, carol.ID, 2, "Bland")
	require.NoError(s.T(), err)
	loaded, err = s.recipes.GetRecipe(s.ctx, scramble.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3.0, loaded.AverageRating())
	assert.Equal(s.T(), 2, loaded.RatingCount)
}

func (s *ServiceIntegrationTestSuite) TestRegister_Duplicates() {
	s.register("alice")

	_, err := s.users.Register(s.ctx, service.RegisterInput{Username: "alice", Email: "new@example.com", Password: "Secret123"})
	var dup *repository.UniquenessViolation
	require.True(s.T(), errors.As(err, &dup))
	assert.Equal(s.T(), "username", dup.Field)

	_, err = s.users.Register(s.ctx, service.RegisterInput{Username: "alice2", Email: "ALICE@example.com", Password: "Secret123"})
	require.True(s.T(), errors.As(err, &dup))
	assert.Equal(s.T(), "email", dup.Field)
}

func (s *ServiceIntegrationTestSuite) TestRegister_Validation() {
	tests := []struct {
		name  string
		input service.RegisterInput
		field string
	}{
		{"short password", service.RegisterInput{Username: "dave", Email: "dave@example.com", Password: "short"}, "password"},
		{"bad email", service.RegisterInput{Username: "dave", Email: "not-an-email", Password: "Secret123"}, "email"},
		{"missing username", service.RegisterInput{Email: "dave@example.com", Password: "Secret123"}, "username"},
		{"unknown cooking level", service.RegisterInput{Username: "dave", Email: "dave@example.com", Password: "Secret123", CookingLevel: "chef"}, "cooking_level"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.users.Register(s.ctx, tt.input)
			var verr *models.ValidationError
			require.True(s.T(), errors.As(err, &verr), "got %v", err)
			assert.Contains(s.T(), verr.Fields, tt.field)
		})
	}
}

func (s *ServiceIntegrationTestSuite) TestCheckPassword_RecordsLogin() {
	s.register("alice")

	_, ok, err := s.users.CheckPassword(s.ctx, "alice", "wrong-password")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)

	user, ok, err := s.users.CheckPassword(s.ctx, "alice", "Secret123")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	loaded, err := s.users.GetUser(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), loaded.LastLogin)

	missing, ok, err := s.users.CheckPassword(s.ctx, "nobody", "Secret123")
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)
	assert.Nil(s.T(), missing)
}

func (s *ServiceIntegrationTestSuite) TestUpdateProfile() {
	alice := s.register("alice")
	bio := "Cooks a lot of lentils"
	level := models.CookingAdvanced

	updated, err := s.users.UpdateProfile(s.ctx, alice.ID, service.ProfileUpdate{
		Bio:                &bio,
		CookingLevel:       &level,
		DietaryPreferences: []string{"vegan", "nut-free"},
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), bio, updated.Bio)

	loaded, err := s.users.GetUser(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.CookingAdvanced, loaded.CookingLevel)
	assert.Equal(s.T(), models.StringList{"vegan", "nut-free"}, loaded.DietaryPreferences)

	bad := models.CookingLevel("wizard")
	_, err = s.users.UpdateProfile(s.ctx, alice.ID, service.ProfileUpdate{CookingLevel: &bad})
	var verr *models.ValidationError
	assert.True(s.T(), errors.As(err, &verr))

	_, err = s.users.UpdateProfile(s.ctx, 999, service.ProfileUpdate{Bio: &bio})
	assert.True(s.T(), repository.IsNotFound(err))
}

func (s *ServiceIntegrationTestSuite) TestCreateRecipe_UnknownAuthor() {
	_, err := s.recipes.CreateRecipe(s.ctx, 999, service.RecipeInput{Title: "Ghost", Instructions: "Boo."})
	assert.True(s.T(), repository.IsNotFound(err))
}

func (s *ServiceIntegrationTestSuite) TestCreateRecipe_Validation() {
	alice := s.register("alice")

	_, err := s.recipes.CreateRecipe(s.ctx, alice.ID, service.RecipeInput{Title: "", Instructions: ""})
	var verr *models.ValidationError
	require.True(s.T(), errors.As(err, &verr))
	assert.Contains(s.T(), verr.Fields, "title")
	assert.Contains(s.T(), verr.Fields, "instructions")
}

func (s *ServiceIntegrationTestSuite) TestUpdateRecipe() {
	alice := s.register("alice")
	recipe := s.recipe(alice, "Chili")
	no := false

	updated, err := s.recipes.UpdateRecipe(s.ctx, recipe.ID, service.RecipeInput{
		Title:        "Three Bean Chili",
		Ingredients:  []string{"beans"},
		Instructions: "Simmer for an hour.",
		Difficulty:   models.DifficultyMedium,
		IsSwappable:  &no,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Three Bean Chili", updated.Title)
	assert.Equal(s.T(), models.DifficultyMedium, updated.Difficulty)
	assert.False(s.T(), updated.IsSwappable)
	assert.True(s.T(), updated.IsPublic)

	list, err := s.recipes.ListByAuthor(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *ServiceIntegrationTestSuite) TestReview_DuplicateRejected() {
	alice := s.register("alice")
	bob := s.register("bob")
	recipe := s.recipe(alice, "Tofu Scramble")

	_, err := s.reviews.CreateReview(s.ctx, recipe.ID, bob.ID, 5, "")
	require.NoError(s.T(), err)

	_, err = s.reviews.CreateReview(s.ctx, recipe.ID, bob.ID, 1, "changed my mind")
	assert.True(s.T(), repository.IsDuplicate(err), "got %v", err)

	loaded, err := s.recipes.GetRecipe(s.ctx, recipe.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, loaded.RatingCount)
	assert.Equal(s.T(), 5.0, loaded.AverageRating())
}

func (s *ServiceIntegrationTestSuite) TestReview_RatingOutOfRange() {
	alice := s.register("alice")
	bob := s.register("bob")
	recipe := s.recipe(alice, "Tofu Scramble")

	for _, rating := range []int{0, 6} {
		_, err := s.reviews.CreateReview(s.ctx, recipe.ID, bob.ID, rating, "")
		var verr *models.ValidationError
		require.True(s.T(), errors.As(err, &verr), "rating %d", rating)
		assert.Contains(s.T(), verr.Fields, "rating")
	}
}

func (s *ServiceIntegrationTestSuite) TestReview_UpdateAndDeleteRecompute() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	recipe := s.recipe(alice, "Tofu Scramble")

	bobReview, err := s.reviews.CreateReview(s.ctx, recipe.ID, bob.ID, 4, "")
	require.NoError(s.T(), err)
	_, err = s.reviews.CreateReview(s.ctx, recipe.ID, carol.ID, 2, "")
	require.NoError(s.T(), err)

	_, err = s.reviews.UpdateReview(s.ctx, bobReview.ID, 5, "Even better")
	require.NoError(s.T(), err)
	loaded, _ := s.recipes.GetRecipe(s.ctx, recipe.ID)
	assert.Equal(s.T(), 3.5, loaded.AverageRating())

	require.NoError(s.T(), s.reviews.DeleteReview(s.ctx, bobReview.ID))
	loaded, _ = s.recipes.GetRecipe(s.ctx, recipe.ID)
	assert.Equal(s.T(), 2.0, loaded.AverageRating())
	assert.Equal(s.T(), 1, loaded.RatingCount)

	assert.True(s.T(), repository.IsNotFound(s.reviews.DeleteReview(s.ctx, bobReview.ID)))
}

func (s *ServiceIntegrationTestSuite) TestReview_UpdateInvalidRollsBack() {
	alice := s.register("alice")
	bob := s.register("bob")
	recipe := s.recipe(alice, "Tofu Scramble")
	review, err := s.reviews.CreateReview(s.ctx, recipe.ID, bob.ID, 4, "")
	require.NoError(s.T(), err)

	_, err = s.reviews.UpdateReview(s.ctx, review.ID, 9, "")
	require.Error(s.T(), err)

	reviews, err := s.reviews.ListReviews(s.ctx, recipe.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), reviews, 1)
	assert.Equal(s.T(), 4, reviews[0].Rating)
	assert.Equal(s.T(), "bob", reviews[0].Reviewer.Username)
}

func (s *ServiceIntegrationTestSuite) TestMarkHelpful() {
	alice := s.register("alice")
	bob := s.register("bob")
	recipe := s.recipe(alice, "Tofu Scramble")
	review, err := s.reviews.CreateReview(s.ctx, recipe.ID, bob.ID, 4, "")
	require.NoError(s.T(), err)

	review, err = s.reviews.MarkHelpful(s.ctx, review.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, review.HelpfulCount)

	loaded, _ := s.recipes.GetRecipe(s.ctx, recipe.ID)
	assert.Equal(s.T(), 4.0, loaded.AverageRating())
}

func (s *ServiceIntegrationTestSuite) TestReadPaths_EmbedAuthorsWithRecipeCounts() {
	alice := s.register("alice")
	bob := s.register("bob")
	scramble := s.recipe(alice, "Tofu Scramble")
	s.recipe(bob, "Red Lentil Dal")

	review, err := s.reviews.CreateReview(s.ctx, scramble.ID, bob.ID, 5, "")
	require.NoError(s.T(), err)
	created := review.View(true)
	require.NotNil(s.T(), created.Reviewer)
	assert.Equal(s.T(), "bob", created.Reviewer.Username)
	assert.Equal(s.T(), 1, created.Reviewer.RecipeCount)

	reviews, err := s.reviews.ListReviews(s.ctx, scramble.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), reviews, 1)
	listed := reviews[0].View(true)
	require.NotNil(s.T(), listed.Reviewer)
	assert.Equal(s.T(), 1, listed.Reviewer.RecipeCount)

	byAlice, err := s.recipes.ListByAuthor(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), byAlice, 1)
	view := byAlice[0].View(true)
	require.NotNil(s.T(), view.Author)
	assert.Equal(s.T(), "alice", view.Author.Username)
	assert.Equal(s.T(), 1, view.Author.RecipeCount)
	assert.Nil(s.T(), view.Author.Email)
}

func (s *ServiceIntegrationTestSuite) TestSwap_FullLifecycle() {
	alice := s.register("alice")
	bob := s.register("bob")
	wanted := s.recipe(alice, "Tofu Scramble")
	offered := s.recipe(bob, "Lentil Dal")

	swap, err := s.swaps.RequestSwap(s.ctx, bob.ID, wanted.ID, []uint{offered.ID, offered.ID}, "Trade?")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapPending, swap.Status)
	assert.Equal(s.T(), alice.ID, *swap.OwnerID)
	assert.Equal(s.T(), models.IDList{offered.ID}, swap.OfferedRecipeIDs)

	// pending -> completed is not allowed
	_, err = s.swaps.Complete(s.ctx, swap.ID, alice.ID)
	var terr *models.InvalidTransitionError
	require.True(s.T(), errors.As(err, &terr))
	assert.Equal(s.T(), models.SwapPending, terr.From)

	s.clock = s.clock.Add(time.Hour)
	swap, err = s.swaps.Accept(s.ctx, swap.ID, alice.ID, "Sure")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapAccepted, swap.Status)
	assert.Equal(s.T(), "Sure", swap.ResponseMessage)
	assert.Nil(s.T(), swap.CompletedAt)

	s.clock = s.clock.Add(time.Hour)
	swap, err = s.swaps.Complete(s.ctx, swap.ID, bob.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapCompleted, swap.Status)
	require.NotNil(s.T(), swap.CompletedAt)
	assert.True(s.T(), swap.CompletedAt.Equal(s.clock))

	assert.Equal(s.T(), []string{
		broker.SwapEventRequested,
		broker.SwapEventAccepted,
		broker.SwapEventCompleted,
	}, s.publisher.types())

	view := swap.View(true, true)
	assert.Equal(s.T(), "bob", view.Requester.Username)
	assert.Equal(s.T(), "alice", view.Owner.Username)
	assert.Equal(s.T(), "Tofu Scramble", view.Recipe.Title)
}

func (s *ServiceIntegrationTestSuite) TestSwap_Decline() {
	alice := s.register("alice")
	bob := s.register("bob")
	wanted := s.recipe(alice, "Tofu Scramble")

	swap, err := s.swaps.RequestSwap(s.ctx, bob.ID, wanted.ID, nil, "")
	require.NoError(s.T(), err)

	// only the owner may answer
	_, err = s.swaps.Decline(s.ctx, swap.ID, bob.ID, "")
	var verr *models.ValidationError
	require.True(s.T(), errors.As(err, &verr))

	swap, err = s.swaps.Decline(s.ctx, swap.ID, alice.ID, "Not this one")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapDeclined, swap.Status)

	_, err = s.swaps.Accept(s.ctx, swap.ID, alice.ID, "")
	var terr *models.InvalidTransitionError
	assert.True(s.T(), errors.As(err, &terr))
}

func (s *ServiceIntegrationTestSuite) TestSwap_RequestRules() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	wanted := s.recipe(alice, "Tofu Scramble")
	carolsRecipe := s.recipe(carol, "Carol's Curry")

	tests := []struct {
		name      string
		requester uint
		recipe    uint
		offered   []uint
		field     string
	}{
		{"own recipe", alice.ID, wanted.ID, nil, "recipe_id"},
		{"offering someone else's recipe", bob.ID, wanted.ID, []uint{carolsRecipe.ID}, "offered_recipe_ids"},
		{"offering a missing recipe", bob.ID, wanted.ID, []uint{424242}, "offered_recipe_ids"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.swaps.RequestSwap(s.ctx, tt.requester, tt.recipe, tt.offered, "")
			var verr *models.ValidationError
			require.True(s.T(), errors.As(err, &verr), "got %v", err)
			assert.Contains(s.T(), verr.Fields, tt.field)
		})
	}

	_, err := s.swaps.RequestSwap(s.ctx, bob.ID, 999, nil, "")
	assert.True(s.T(), repository.IsNotFound(err))

	no := false
	_, err = s.recipes.UpdateRecipe(s.ctx, wanted.ID, service.RecipeInput{
		Title: wanted.Title, Instructions: wanted.Instructions, IsSwappable: &no,
	})
	require.NoError(s.T(), err)
	_, err = s.swaps.RequestSwap(s.ctx, bob.ID, wanted.ID, nil, "")
	var verr *models.ValidationError
	assert.True(s.T(), errors.As(err, &verr))

	assert.Empty(s.T(), s.publisher.types())
}

func (s *ServiceIntegrationTestSuite) TestSwap_PublishFailureDoesNotFail() {
	alice := s.register("alice")
	bob := s.register("bob")
	wanted := s.recipe(alice, "Tofu Scramble")
	s.publisher.fail = true

	swap, err := s.swaps.RequestSwap(s.ctx, bob.ID, wanted.ID, nil, "")
	require.NoError(s.T(), err)

	stored, err := s.swaps.GetSwap(s.ctx, swap.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.SwapPending, stored.Status)
}

func (s *ServiceIntegrationTestSuite) TestDeleteUser_KeepsUnrelatedSwaps() {
	alice := s.register("alice")
	bob := s.register("bob")
	carol := s.register("carol")
	aliceRecipe := s.recipe(alice, "Alice Curry")
	bobRecipe := s.recipe(bob, "Bob Stew")

	_, err := s.swaps.RequestSwap(s.ctx, bob.ID, aliceRecipe.ID, nil, "")
	require.NoError(s.T(), err)
	unrelated, err := s.swaps.RequestSwap(s.ctx, carol.ID, bobRecipe.ID, nil, "")
	require.NoError(s.T(), err)
	_, err = s.reviews.CreateReview(s.ctx, bobRecipe.ID, alice.ID, 1, "")
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.users.DeleteUser(s.ctx, alice.ID))

	_, err = s.recipes.GetRecipe(s.ctx, aliceRecipe.ID)
	assert.True(s.T(), repository.IsNotFound(err))

	bobSwaps, err := s.swaps.ListSwaps(s.ctx, bob.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), bobSwaps, 1)
	assert.Equal(s.T(), unrelated.ID, bobSwaps[0].ID)

	stew, err := s.recipes.GetRecipe(s.ctx, bobRecipe.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, stew.RatingCount)
	assert.Equal(s.T(), 0.0, stew.AverageRating())
}

func (s *ServiceIntegrationTestSuite) TestDeleteRecipe() {
	alice := s.register("alice")
	recipe := s.recipe(alice, "Tofu Scramble")

	require.NoError(s.T(), s.recipes.DeleteRecipe(s.ctx, recipe.ID))
	assert.True(s.T(), repository.IsNotFound(s.recipes.DeleteRecipe(s.ctx, recipe.ID)))

	user, err := s.users.GetUser(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, user.View(false).RecipeCount)
}

func TestServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceIntegrationTestSuite))
}
