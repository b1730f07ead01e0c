package models

import (
	"time"

	"github.com/Baaaki/vwap/internal/password"
)

type CookingLevel string

const (
	CookingBeginner     CookingLevel = "beginner"
	CookingIntermediate CookingLevel = "intermediate"
	CookingAdvanced     CookingLevel = "advanced"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username" validate:"required,max=80"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email" validate:"required,email,max=120"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON

	FirstName      string `gorm:"type:varchar(50)" json:"first_name" validate:"max=50"`
	LastName       string `gorm:"type:varchar(50)" json:"last_name" validate:"max=50"`
	Bio            string `gorm:"type:text" json:"bio"`
	ProfilePicture string `gorm:"type:varchar(255)" json:"profile_picture" validate:"max=255"`

	DietaryPreferences StringList   `gorm:"type:text" json:"dietary_preferences"`
	CookingLevel       CookingLevel `gorm:"type:varchar(20);default:'beginner'" json:"cooking_level" validate:"omitempty,oneof=beginner intermediate advanced"`

	IsActive   bool `gorm:"not null" json:"is_active"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login"`

	// Loaded on demand; only the row count matters to views.
	Recipes []Recipe `gorm:"foreignKey:AuthorID" json:"-" validate:"-"`
}

func (User) TableName() string {
	return "users"
}

// NewUser returns a user with the column defaults applied, so that an
// explicit false for IsActive is never silently replaced by the database.
func NewUser(username, email string) *User {
	return &User{
		Username:           username,
		Email:              email,
		CookingLevel:       CookingBeginner,
		DietaryPreferences: StringList{},
		IsActive:           true,
	}
}

// SetPassword hashes and stores password.
func (u *User) SetPassword(plain string) error {
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash. A user
// without a hash never matches.
func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	ok, err := password.Verify(plain, u.PasswordHash)
	return err == nil && ok
}

func (u *User) MarkLogin(at time.Time) {
	u.LastLogin = &at
}
