package models

import "time"

// Views are the public JSON shapes handed to clients. Field names are part
// of the frontend contract and must not change.

type UserView struct {
	ID                 uint         `json:"id"`
	Username           string       `json:"username"`
	FirstName          string       `json:"first_name"`
	LastName           string       `json:"last_name"`
	Bio                string       `json:"bio"`
	ProfilePicture     string       `json:"profile_picture"`
	DietaryPreferences StringList   `json:"dietary_preferences"`
	CookingLevel       CookingLevel `json:"cooking_level"`
	CreatedAt          *time.Time   `json:"created_at"`
	RecipeCount        int          `json:"recipe_count"`
	Email              *string      `json:"email,omitempty"`
}

type RecipeView struct {
	ID                 uint          `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Ingredients        StringList    `json:"ingredients"`
	Instructions       string        `json:"instructions"`
	PrepTime           *int          `json:"prep_time"`
	CookTime           *int          `json:"cook_time"`
	TotalTime          *int          `json:"total_time"`
	Servings           int           `json:"servings"`
	Difficulty         Difficulty    `json:"difficulty"`
	Category           string        `json:"category"`
	Tags               StringList    `json:"tags"`
	CuisineType        string        `json:"cuisine_type"`
	ImageURL           string        `json:"image_url"`
	VideoURL           string        `json:"video_url"`
	CaloriesPerServing *int          `json:"calories_per_serving"`
	NutritionalInfo    NutritionInfo `json:"nutritional_info"`
	IsPublic           bool          `json:"is_public"`
	IsSwappable        bool          `json:"is_swappable"`
	AverageRating      float64       `json:"average_rating"`
	RatingCount        int           `json:"rating_count"`
	CreatedAt          *time.Time    `json:"created_at"`
	UpdatedAt          *time.Time    `json:"updated_at"`
	Author             *UserView     `json:"author,omitempty"`
}

type ReviewView struct {
	ID           uint       `json:"id"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	HelpfulCount int        `json:"helpful_count"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	Reviewer     *UserView  `json:"reviewer,omitempty"`
}

type SwapView struct {
	ID               uint        `json:"id"`
	Message          string      `json:"message"`
	OfferedRecipeIDs IDList      `json:"offered_recipe_ids"`
	Status           SwapStatus  `json:"status"`
	ResponseMessage  string      `json:"response_message"`
	CreatedAt        *time.Time  `json:"created_at"`
	UpdatedAt        *time.Time  `json:"updated_at"`
	CompletedAt      *time.Time  `json:"completed_at"`
	Requester        *UserView   `json:"requester,omitempty"`
	Owner            *UserView   `json:"owner,omitempty"`
	Recipe           *RecipeView `json:"recipe,omitempty"`
}

// View never includes the password hash. The email is only included for
// the account owner or privileged callers. RecipeCount reflects u.Recipes,
// so callers preload it when the count matters.
func (u *User) View(includeEmail bool) UserView {
	v := UserView{
		ID:                 u.ID,
		Username:           u.Username,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Bio:                u.Bio,
		ProfilePicture:     u.ProfilePicture,
		DietaryPreferences: nonNilList(u.DietaryPreferences),
		CookingLevel:       u.CookingLevel,
		CreatedAt:          optionalTime(u.CreatedAt),
		RecipeCount:        len(u.Recipes),
	}
	if includeEmail {
		email := u.Email
		v.Email = &email
	}
	return v
}

// View embeds the author's public view when includeAuthor is set and the
// author is loaded.
func (r *Recipe) View(includeAuthor bool) RecipeView {
	v := RecipeView{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Ingredients:        nonNilList(r.Ingredients),
		Instructions:       r.Instructions,
		PrepTime:           r.PrepTime,
		CookTime:           r.CookTime,
		TotalTime:          r.TotalTime,
		Servings:           r.Servings,
		Difficulty:         r.Difficulty,
		Category:           r.Category,
		Tags:               nonNilList(r.Tags),
		CuisineType:        r.CuisineType,
		ImageURL:           r.ImageURL,
		VideoURL:           r.VideoURL,
		CaloriesPerServing: r.CaloriesPerServing,
		NutritionalInfo:    r.NutritionalInfo,
		IsPublic:           r.IsPublic,
		IsSwappable:        r.IsSwappable,
		AverageRating:      r.AverageRating(),
		RatingCount:        r.RatingCount,
		CreatedAt:          optionalTime(r.CreatedAt),
		UpdatedAt:          optionalTime(r.UpdatedAt),
	}
	if v.NutritionalInfo == nil {
		v.NutritionalInfo = NutritionInfo{}
	}
	if includeAuthor && r.Author != nil {
		author := r.Author.View(false)
		v.Author = &author
	}
	return v
}

func (r *Review) View(includeReviewer bool) ReviewView {
	v := ReviewView{
		ID:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		HelpfulCount: r.HelpfulCount,
		CreatedAt:    optionalTime(r.CreatedAt),
		UpdatedAt:    optionalTime(r.UpdatedAt),
	}
	if includeReviewer && r.Reviewer != nil {
		reviewer := r.Reviewer.View(false)
		v.Reviewer = &reviewer
	}
	return v
}

// View embeds the recipe without its author, so nesting stays one level deep.
func (s *RecipeSwap) View(includeUsers, includeRecipe bool) SwapView {
	v := SwapView{
		ID:               s.ID,
		Message:          s.Message,
		OfferedRecipeIDs: s.OfferedRecipeIDs,
		Status:           s.Status,
		ResponseMessage:  s.ResponseMessage,
		CreatedAt:        optionalTime(s.CreatedAt),
		UpdatedAt:        optionalTime(s.UpdatedAt),
		CompletedAt:      s.CompletedAt,
	}
	if v.OfferedRecipeIDs == nil {
		v.OfferedRecipeIDs = IDList{}
	}
	if includeUsers {
		if s.Requester != nil {
			requester := s.Requester.View(false)
			v.Requester = &requester
		}
		if s.Owner != nil {
			owner := s.Owner.View(false)
			v.Owner = &owner
		}
	}
	if includeRecipe && s.Recipe != nil {
		recipe := s.Recipe.View(false)
		v.Recipe = &recipe
	}
	return v
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNilList(l StringList) StringList {
	if l == nil {
		return StringList{}
	}
	return l
}
