package models

import (
	"strconv"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Recipe struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(200);not null;index" json:"title" validate:"required,max=200"`
	Description  string     `gorm:"type:text" json:"description"`
	Ingredients  StringList `gorm:"type:text;not null" json:"ingredients"`
	Instructions string     `gorm:"type:text;not null" json:"instructions" validate:"required"`

	// Minutes
	PrepTime   *int       `json:"prep_time" validate:"omitempty,min=0"`
	CookTime   *int       `json:"cook_time" validate:"omitempty,min=0"`
	TotalTime  *int       `json:"total_time" validate:"omitempty,min=0"`
	Servings   int        `gorm:"default:1" json:"servings" validate:"min=0"`
	Difficulty Difficulty `gorm:"type:varchar(20);default:'easy'" json:"difficulty" validate:"omitempty,oneof=easy medium hard"`

	Category    string     `gorm:"type:varchar(50)" json:"category" validate:"max=50"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	CuisineType string     `gorm:"type:varchar(50)" json:"cuisine_type" validate:"max=50"`

	ImageURL string `gorm:"type:varchar(255)" json:"image_url" validate:"max=255"`
	VideoURL string `gorm:"type:varchar(255)" json:"video_url" validate:"max=255"`

	CaloriesPerServing *int          `json:"calories_per_serving" validate:"omitempty,min=0"`
	NutritionalInfo    NutritionInfo `gorm:"type:text" json:"nutritional_info"`

	IsPublic    bool `gorm:"not null" json:"is_public"`
	IsSwappable bool `gorm:"not null" json:"is_swappable"`

	// Maintained by the review service; see AverageRating.
	RatingSum   int `gorm:"not null;default:0" json:"-"`
	RatingCount int `gorm:"not null;default:0" json:"rating_count"`

	AuthorID uint  `gorm:"not null;index" json:"-" validate:"required"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"-" validate:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// NewRecipe returns a public, swappable recipe with the column defaults applied.
func NewRecipe(authorID uint, title, instructions string, ingredients []string) *Recipe {
	return &Recipe{
		AuthorID:        authorID,
		Title:           title,
		Instructions:    instructions,
		Ingredients:     StringList(ingredients),
		Tags:            StringList{},
		NutritionalInfo: NutritionInfo{},
		Servings:        1,
		Difficulty:      DifficultyEasy,
		IsPublic:        true,
		IsSwappable:     true,
	}
}

// AverageRating is 0 without ratings, otherwise rating_sum/rating_count
// rounded to one decimal place. Rounding works on the exact value of the
// quotient, with exact halves going to even.
func (r *Recipe) AverageRating() float64 {
	if r.RatingCount == 0 {
		return 0
	}
	avg := float64(r.RatingSum) / float64(r.RatingCount)
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(avg, 'f', 1, 64), 64)
	return rounded
}
