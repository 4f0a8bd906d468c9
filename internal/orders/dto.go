package orders

import (
	"github.com/google/uuid"

	"github.com/feastline/feastline-backend/pkg/db/models"
	"github.com/feastline/feastline-backend/pkg/enums"
)

// CheckoutInput carries everything a checkout needs beyond the cart itself.
type CheckoutInput struct {
	CustomerID  uuid.UUID
	PaymentMode enums.PaymentMode
	OfferID     *uuid.UUID
}

// Actor identifies who is asking for a state change.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// TransitionInput moves an order to a new status on behalf of an actor.
type TransitionInput struct {
	OrderID uuid.UUID
	To      enums.OrderStatus
	Actor   Actor
}

// HistoryParams configures the customer order history page.
type HistoryParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     string
}

// HistoryResult wraps a history page and the cursor for the next one.
type HistoryResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}

// ReorderResult reports what made it back into the cart.
type ReorderResult struct {
	RestaurantID uuid.UUID   `json:"restaurant_id"`
	Added        int         `json:"added"`
	Skipped      []uuid.UUID `json:"skipped,omitempty"`
}
