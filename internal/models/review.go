package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Rating       int    `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	Comment      string `gorm:"type:text" json:"comment"`
	HelpfulCount int    `gorm:"not null;default:0" json:"helpful_count" validate:"min=0"`

	// One review per (recipe, reviewer)
	RecipeID   uint `gorm:"not null;uniqueIndex:unique_recipe_reviewer" json:"-" validate:"required"`
	ReviewerID uint `gorm:"not null;uniqueIndex:unique_recipe_reviewer" json:"-" validate:"required"`

	Recipe   *Recipe `gorm:"foreignKey:RecipeID" json:"-" validate:"-"`
	Reviewer *User   `gorm:"foreignKey:ReviewerID" json:"-" validate:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
