package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store is the persistence context handed to services. Each Store wraps
// one *gorm.DB, either a pool or a transaction.
type Store struct {
	db *gorm.DB

	Users   *UserRepository
	Recipes *RecipeRepository
	Reviews *ReviewRepository
	Swaps   *SwapRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Users:   NewUserRepository(db),
		Recipes: NewRecipeRepository(db),
		Reviews: NewReviewRepository(db),
		Swaps:   NewSwapRepository(db),
	}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
