package models

import "time"

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapDeclined  SwapStatus = "declined"
	SwapCompleted SwapStatus = "completed"
)

// swapTransitions lists the only legal status changes.
var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapPending:  {SwapAccepted, SwapDeclined},
	SwapAccepted: {SwapCompleted},
}

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapDeclined, SwapCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s SwapStatus) Terminal() bool {
	return s == SwapDeclined || s == SwapCompleted
}

// CanTransition reports whether from -> to is a legal swap status change.
func CanTransition(from, to SwapStatus) bool {
	for _, next := range swapTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError for illegal changes.
func ValidateTransition(from, to SwapStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

type RecipeSwap struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Participants are detached (NULL) when their account is removed while
	// the requested recipe survives.
	RequesterID *uint `gorm:"index" json:"-" validate:"required"`
	OwnerID     *uint `gorm:"index" json:"-" validate:"required"`
	RecipeID    uint  `gorm:"not null;index" json:"-" validate:"required"`

	Message          string     `gorm:"type:text" json:"message"`
	OfferedRecipeIDs IDList     `gorm:"type:text" json:"offered_recipe_ids"`
	Status           SwapStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"oneof=pending accepted declined completed"`
	ResponseMessage  string     `gorm:"type:text" json:"response_message"`

	Requester *User   `gorm:"foreignKey:RequesterID" json:"-" validate:"-"`
	Owner     *User   `gorm:"foreignKey:OwnerID" json:"-" validate:"-"`
	Recipe    *Recipe `gorm:"foreignKey:RecipeID" json:"-" validate:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (RecipeSwap) TableName() string {
	return "recipe_swaps"
}

func NewRecipeSwap(requesterID, ownerID, recipeID uint, offered []uint, message string) *RecipeSwap {
	if offered == nil {
		offered = []uint{}
	}
	return &RecipeSwap{
		RequesterID:      &requesterID,
		OwnerID:          &ownerID,
		RecipeID:         recipeID,
		Message:          message,
		OfferedRecipeIDs: IDList(offered),
		Status:           SwapPending,
	}
}

// TransitionTo moves the swap to next if the change is legal. CompletedAt
// is set exactly when entering completed.
func (s *RecipeSwap) TransitionTo(next SwapStatus, now time.Time) error {
	current := s.Status
	if current == "" {
		current = SwapPending
	}
	if err := ValidateTransition(current, next); err != nil {
		return err
	}
	s.Status = next
	if next == SwapCompleted {
		at := now
		s.CompletedAt = &at
	}
	return nil
}

// IsParticipant reports whether userID is the requester or the owner.
func (s *RecipeSwap) IsParticipant(userID uint) bool {
	return (s.RequesterID != nil && *s.RequesterID == userID) ||
		(s.OwnerID != nil && *s.OwnerID == userID)
}
