package repository

import (
	"context"

	"github.com/Baaaki/vwap/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const resourceUser = "user"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	return translate(err, resourceUser, user.ID, "")
}

// GetUserByID loads the user together with the ids of their recipes, which
// the public view counts.
func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Scopes(withRecipeIDs("Recipes")).
		First(&user, id).Error
	if err != nil {
		return nil, translate(err, resourceUser, id, "")
	}
	return &user, nil
}

// GetUserByEmail returns nil, nil when no user has this email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetUserByUsername returns nil, nil when no user has this username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&users).Error
	if err != nil || len(users) == 0 {
		return nil, err
	}
	return &users[0], nil
}

// UpdateUser writes every column except id and created_at; updated_at is
// bumped by gorm.
func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(user).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(user)
	if result.Error != nil {
		return translate(result.Error, resourceUser, user.ID, "")
	}
	if result.RowsAffected == 0 {
		return NotFound(resourceUser, user.ID)
	}
	return nil
}

// DeleteUser removes the user and everything they own. See deleteUserCascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteUserCascade(tx, id)
	})
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// withRecipeIDs preloads only the id columns of a user's recipes at path
// (e.g. "Recipes" or "Author.Recipes").
func withRecipeIDs(path string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(path, func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "author_id")
		})
	}
}
