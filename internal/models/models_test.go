package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_AverageRating(t *testing.T) {
	cases := []struct {
		name  string
		sum   int
		count int
		want  float64
	}{
		{"no ratings", 0, 0, 0},
		{"stale sum without count", 9, 0, 0},
		{"single", 4, 1, 4.0},
		{"even split", 6, 2, 3.0},
		{"repeating", 10, 3, 3.3},
		{"rounds up", 14, 3, 4.7},
		{"exact half to even", 9, 4, 2.2},
		{"just above a half", 21, 20, 1.1},
		{"just below a half", 23, 20, 1.1},
		{"twentieths", 47, 20, 2.4},
		{"max", 25, 5, 5.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &Recipe{RatingSum: tc.sum, RatingCount: tc.count}
			assert.Equal(t, tc.want, r.AverageRating())
		})
	}
}

func TestSwapTransitions(t *testing.T) {
	legal := [][2]SwapStatus{
		{SwapPending, SwapAccepted},
		{SwapPending, SwapDeclined},
		{SwapAccepted, SwapCompleted},
	}
	for _, tr := range legal {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s should be legal", tr[0], tr[1])
	}

	all := []SwapStatus{SwapPending, SwapAccepted, SwapDeclined, SwapCompleted}
	for _, from := range all {
		for _, to := range all {
			if CanTransition(from, to) {
				continue
			}
			err := ValidateTransition(from, to)
			var terr *InvalidTransitionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, from, terr.From)
			assert.Equal(t, to, terr.To)
		}
	}

	assert.False(t, CanTransition(SwapStatus("shipped"), SwapCompleted))
	assert.True(t, SwapDeclined.Terminal())
	assert.True(t, SwapCompleted.Terminal())
	assert.False(t, SwapAccepted.Terminal())
	assert.False(t, SwapStatus("shipped").Valid())
}

func TestRecipeSwap_TransitionTo(t *testing.T) {
	swap := NewRecipeSwap(1, 2, 10, nil, "trade?")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := swap.TransitionTo(SwapCompleted, now)
	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, SwapPending, swap.Status)
	assert.Nil(t, swap.CompletedAt)

	require.NoError(t, swap.TransitionTo(SwapAccepted, now))
	assert.Equal(t, SwapAccepted, swap.Status)
	assert.Nil(t, swap.CompletedAt, "completed_at must stay unset until completion")

	later := now.Add(time.Hour)
	require.NoError(t, swap.TransitionTo(SwapCompleted, later))
	assert.Equal(t, SwapCompleted, swap.Status)
	require.NotNil(t, swap.CompletedAt)
	assert.Equal(t, later, *swap.CompletedAt)

	assert.Error(t, swap.TransitionTo(SwapAccepted, later))
}

func TestRecipeSwap_Participants(t *testing.T) {
	swap := NewRecipeSwap(1, 2, 10, []uint{4}, "")

	assert.True(t, swap.IsParticipant(1))
	assert.True(t, swap.IsParticipant(2))
	assert.False(t, swap.IsParticipant(3))

	swap.RequesterID = nil
	assert.False(t, swap.IsParticipant(1))
}

func TestUser_Password(t *testing.T) {
	u := NewUser("alice", "alice@example.com")
	assert.False(t, u.CheckPassword("anything"), "user without a hash never matches")

	require.NoError(t, u.SetPassword("Sup3rSecret!"))
	assert.NotEmpty(t, u.PasswordHash)
	assert.True(t, u.CheckPassword("Sup3rSecret!"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestValidate(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		assert.NoError(t, NewUser("alice", "alice@example.com").Validate())
	})

	t.Run("user fields", func(t *testing.T) {
		u := NewUser("", "not-an-email")
		u.CookingLevel = "chef"

		err := u.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "user", verr.Resource)
		assert.Contains(t, verr.Fields, "username")
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "cooking_level")
	})

	t.Run("review rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			err := (&Review{Rating: rating, RecipeID: 1, ReviewerID: 2}).Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, "rating %d", rating)
			assert.Contains(t, verr.Fields, "rating")
		}
		assert.NoError(t, (&Review{Rating: 5, RecipeID: 1, ReviewerID: 2}).Validate())
	})

	t.Run("recipe required fields", func(t *testing.T) {
		r := NewRecipe(0, "", "", nil)
		r.Difficulty = "impossible"

		err := r.Validate()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "title")
		assert.Contains(t, verr.Fields, "instructions")
		assert.Contains(t, verr.Fields, "author_id")
		assert.Contains(t, verr.Fields, "difficulty")
		assert.Contains(t, err.Error(), "invalid recipe")
	})

	t.Run("swap status", func(t *testing.T) {
		s := NewRecipeSwap(1, 2, 3, nil, "")
		s.Status = "shipped"
		var verr *ValidationError
		require.ErrorAs(t, s.Validate(), &verr)
		assert.Contains(t, verr.Fields, "status")
	})
}

func TestUserView_Email(t *testing.T) {
	u := NewUser("alice", "alice@example.com")
	u.ID = 1
	u.PasswordHash = "$argon2id$secret"

	data, err := json.Marshal(u.View(false))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotContains(t, out, "email")
	assert.NotContains(t, out, "password_hash")
	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, []interface{}{}, out["dietary_preferences"])
	assert.Nil(t, out["created_at"])

	data, err = json.Marshal(u.View(true))
	require.NoError(t, err)
	out = nil
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "alice@example.com", out["email"])
	assert.NotContains(t, string(data), "argon2id")
}

func TestRecipeView(t *testing.T) {
	author := NewUser("alice", "alice@example.com")
	author.ID = 1
	author.Recipes = []Recipe{{ID: 5}, {ID: 6}}

	r := NewRecipe(1, "Tofu Scramble", "Crumble and fry.", []string{"tofu", "turmeric"})
	r.ID = 5
	r.Author = author
	r.RatingSum, r.RatingCount = 6, 2
	r.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	v := r.View(true)
	require.NotNil(t, v.Author)
	assert.Equal(t, "alice", v.Author.Username)
	assert.Equal(t, 2, v.Author.RecipeCount)
	assert.Nil(t, v.Author.Email)
	assert.Equal(t, 3.0, v.AverageRating)
	assert.Equal(t, StringList{"tofu", "turmeric"}, v.Ingredients)

	assert.Nil(t, r.View(false).Author)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	for _, key := range []string{
		"id", "title", "description", "ingredients", "instructions", "prep_time", "cook_time",
		"total_time", "servings", "difficulty", "category", "tags", "cuisine_type", "image_url",
		"video_url", "calories_per_serving", "nutritional_info", "is_public", "is_swappable",
		"average_rating", "rating_count", "created_at", "updated_at", "author",
	} {
		assert.Contains(t, string(data), `"`+key+`":`)
	}
	assert.NotContains(t, string(data), "rating_sum")
}

func TestSwapView_NestingDepth(t *testing.T) {
	alice := NewUser("alice", "alice@example.com")
	bob := NewUser("bob", "bob@example.com")
	recipe := NewRecipe(1, "Tofu Scramble", "Fry.", []string{"tofu"})
	recipe.Author = alice

	swap := NewRecipeSwap(2, 1, 5, []uint{9}, "swap?")
	swap.Requester = bob
	swap.Owner = alice
	swap.Recipe = recipe

	v := swap.View(true, true)
	require.NotNil(t, v.Requester)
	require.NotNil(t, v.Owner)
	require.NotNil(t, v.Recipe)
	assert.Equal(t, "bob", v.Requester.Username)
	assert.Nil(t, v.Recipe.Author, "embedded recipe must not expand its author")
	assert.Equal(t, IDList{9}, v.OfferedRecipeIDs)
	assert.Nil(t, v.CompletedAt)

	bare := swap.View(false, false)
	assert.Nil(t, bare.Requester)
	assert.Nil(t, bare.Owner)
	assert.Nil(t, bare.Recipe)

	data, err := json.Marshal(bare)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 0, "message": "swap?", "offered_recipe_ids": [9], "status": "pending",
		"response_message": "", "created_at": null, "updated_at": null, "completed_at": null
	}`, string(data))
}

func TestReviewView(t *testing.T) {
	reviewer := NewUser("bob", "bob@example.com")
	review := &Review{ID: 3, Rating: 4, Comment: "Great", Reviewer: reviewer}

	v := review.View(true)
	require.NotNil(t, v.Reviewer)
	assert.Equal(t, "bob", v.Reviewer.Username)
	assert.Nil(t, v.Reviewer.Email)
	assert.Nil(t, review.View(false).Reviewer)
}
