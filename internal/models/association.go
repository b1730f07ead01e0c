package models

import "time"

// UserFollow is the user_follows association table. It carries no
// behaviour; rows are removed together with either user.
type UserFollow struct {
	FollowerID uint `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time
}

func (UserFollow) TableName() string {
	return "user_follows"
}

// RecipeCollection is the recipe_collections table shape.
type RecipeCollection struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	UserID      uint   `gorm:"not null;index"`
	IsPublic    bool   `gorm:"default:false"`
	CreatedAt   time.Time
}

func (RecipeCollection) TableName() string {
	return "recipe_collections"
}
