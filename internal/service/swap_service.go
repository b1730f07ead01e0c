package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Baaaki/vwap/internal/broker"
	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/pkg/logger"
	"go.uber.org/zap"
)

const resourceSwap = "recipe swap"

type SwapOption func(*SwapService)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) SwapOption {
	return func(s *SwapService) {
		s.now = now
	}
}

// SwapService drives the swap lifecycle:
//
//	pending -> accepted -> completed
//	pending -> declined
//
// Every successful change is published to the event broker after commit.
type SwapService struct {
	store     *repository.Store
	publisher broker.SwapEventPublisher
	now       func() time.Time
}

func NewSwapService(store *repository.Store, publisher broker.SwapEventPublisher, opts ...SwapOption) *SwapService {
	if publisher == nil {
		publisher = broker.NoopPublisher{}
	}
	s := &SwapService{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestSwap asks the author of recipeID for their recipe, optionally
// offering some of the requester's own recipes in return.
func (s *SwapService) RequestSwap(ctx context.Context, requesterID, recipeID uint, offeredIDs []uint, message string) (*models.RecipeSwap, error) {
	logger.Log.Debug("Processing swap request",
		zap.Uint("requester_id", requesterID),
		zap.Uint("recipe_id", recipeID),
		zap.Int("offered", len(offeredIDs)),
	)

	var swap *models.RecipeSwap
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetUserByID(ctx, requesterID); err != nil {
			return err
		}
		recipe, err := tx.Recipes.GetRecipeByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if !recipe.IsSwappable {
			return models.Invalid(resourceSwap, "recipe_id", "recipe is not open for swaps")
		}
		if recipe.AuthorID == requesterID {
			return models.Invalid(resourceSwap, "recipe_id", "cannot request a swap for your own recipe")
		}

		offered := dedupe(offeredIDs)
		if err := checkOffered(ctx, tx, requesterID, offered); err != nil {
			return err
		}

		swap = models.NewRecipeSwap(requesterID, recipe.AuthorID, recipeID, offered, message)
		if err := swap.Validate(); err != nil {
			return err
		}
		return tx.Swaps.CreateSwap(ctx, swap)
	})
	if err != nil {
		logger.Log.Warn("Swap request rejected",
			zap.Uint("requester_id", requesterID),
			zap.Uint("recipe_id", recipeID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Swap requested",
		zap.Uint("swap_id", swap.ID),
		zap.Uint("requester_id", requesterID),
		zap.Uint("owner_id", *swap.OwnerID),
	)
	return s.reloadAndPublish(ctx, broker.SwapEventRequested, swap.ID)
}

// Accept is the owner's yes. Only pending swaps can be accepted.
func (s *SwapService) Accept(ctx context.Context, swapID, ownerID uint, response string) (*models.RecipeSwap, error) {
	return s.respond(ctx, swapID, ownerID, models.SwapAccepted, response)
}

// Decline is the owner's no. Only pending swaps can be declined.
func (s *SwapService) Decline(ctx context.Context, swapID, ownerID uint, response string) (*models.RecipeSwap, error) {
	return s.respond(ctx, swapID, ownerID, models.SwapDeclined, response)
}

func (s *SwapService) respond(ctx context.Context, swapID, ownerID uint, next models.SwapStatus, response string) (*models.RecipeSwap, error) {
	err := s.transition(ctx, swapID, next, func(swap *models.RecipeSwap) error {
		if swap.OwnerID == nil || *swap.OwnerID != ownerID {
			return models.Invalid(resourceSwap, "owner_id", "only the recipe owner can respond to a swap")
		}
		swap.ResponseMessage = response
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reloadAndPublish(ctx, eventFor(next), swapID)
}

// Complete marks an accepted swap as done. Either participant may do this.
func (s *SwapService) Complete(ctx context.Context, swapID, actorID uint) (*models.RecipeSwap, error) {
	err := s.transition(ctx, swapID, models.SwapCompleted, func(swap *models.RecipeSwap) error {
		if !swap.IsParticipant(actorID) {
			return models.Invalid(resourceSwap, "actor", "only swap participants can complete a swap")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.reloadAndPublish(ctx, broker.SwapEventCompleted, swapID)
}

func (s *SwapService) GetSwap(ctx context.Context, id uint) (*models.RecipeSwap, error) {
	return s.store.Swaps.GetSwapByID(ctx, id)
}

// ListSwaps returns the swaps a user sent or received, newest first.
func (s *SwapService) ListSwaps(ctx context.Context, userID uint) ([]models.RecipeSwap, error) {
	return s.store.Swaps.ListSwapsByParticipant(ctx, userID)
}

// transition loads the swap, lets authorize check the actor, applies the
// status change and saves it, all in one transaction.
func (s *SwapService) transition(ctx context.Context, swapID uint, next models.SwapStatus, authorize func(*models.RecipeSwap) error) error {
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		swap, err := tx.Swaps.GetSwapByID(ctx, swapID)
		if err != nil {
			return err
		}
		if err := authorize(swap); err != nil {
			return err
		}
		if err := swap.TransitionTo(next, s.now()); err != nil {
			return err
		}
		return tx.Swaps.UpdateSwap(ctx, swap)
	})
	if err != nil {
		logger.Log.Warn("Swap transition failed",
			zap.Uint("swap_id", swapID),
			zap.String("to", string(next)),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Swap status changed",
		zap.Uint("swap_id", swapID),
		zap.String("status", string(next)),
	)
	return nil
}

// reloadAndPublish reads the committed swap back and announces it. A
// publish failure is logged and otherwise ignored.
func (s *SwapService) reloadAndPublish(ctx context.Context, eventType string, swapID uint) (*models.RecipeSwap, error) {
	swap, err := s.store.Swaps.GetSwapByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	event := broker.NewSwapEvent(eventType, swap, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish swap event",
			zap.String("event_id", event.EventID),
			zap.String("type", eventType),
			zap.Uint("swap_id", swapID),
			zap.Error(err),
		)
	}
	return swap, nil
}

// checkOffered requires every offered id to be a recipe by the requester.
func checkOffered(ctx context.Context, tx *repository.Store, requesterID uint, offered []uint) error {
	if len(offered) == 0 {
		return nil
	}
	recipes, err := tx.Recipes.GetRecipesByIDs(ctx, offered)
	if err != nil {
		return err
	}
	owned := make(map[uint]bool, len(recipes))
	for _, r := range recipes {
		owned[r.ID] = r.AuthorID == requesterID
	}
	for _, id := range offered {
		if !owned[id] {
			return models.Invalid(resourceSwap, "offered_recipe_ids",
				fmt.Sprintf("recipe %d is not one of your recipes", id))
		}
	}
	return nil
}

func dedupe(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func eventFor(status models.SwapStatus) string {
	switch status {
	case models.SwapAccepted:
		return broker.SwapEventAccepted
	case models.SwapDeclined:
		return broker.SwapEventDeclined
	case models.SwapCompleted:
		return broker.SwapEventCompleted
	default:
		return broker.SwapEventRequested
	}
}
