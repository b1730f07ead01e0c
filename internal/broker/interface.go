package broker

import (
	"context"
	"time"

	"github.com/Baaaki/vwap/internal/models"
	"github.com/google/uuid"
)

const (
	SwapEventRequested = "swap.requested"
	SwapEventAccepted  = "swap.accepted"
	SwapEventDeclined  = "swap.declined"
	SwapEventCompleted = "swap.completed"
)

// SwapEvent is published every time a swap is created or changes status.
type SwapEvent struct {
	EventID     string            `json:"event_id"`
	Type        string            `json:"type"`
	SwapID      uint              `json:"swap_id"`
	RecipeID    uint              `json:"recipe_id"`
	RequesterID *uint             `json:"requester_id"`
	OwnerID     *uint             `json:"owner_id"`
	Status      models.SwapStatus `json:"status"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// NewSwapEvent snapshots swap into an event with a fresh id.
func NewSwapEvent(eventType string, swap *models.RecipeSwap, at time.Time) SwapEvent {
	return SwapEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		SwapID:      swap.ID,
		RecipeID:    swap.RecipeID,
		RequesterID: swap.RequesterID,
		OwnerID:     swap.OwnerID,
		Status:      swap.Status,
		OccurredAt:  at.UTC(),
	}
}

// SwapEventPublisher fans swap lifecycle events out to other processes.
// Delivery is best effort; a lost event never undoes the swap change.
type SwapEventPublisher interface {
	Publish(ctx context.Context, event SwapEvent) error
	Close() error
}

// NoopPublisher drops every event. Used when REDIS_URL is not set.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, SwapEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
