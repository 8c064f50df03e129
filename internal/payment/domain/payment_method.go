package domain

import (
	"context"
	"time"
)

type PaymentMethod struct {
	ID         int
	UserID     string
	Type       string
	LastFour   string
	ExpiryDate string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MethodRepository stores the payment instruments belonging to users. Saving
// a method with IsDefault set must clear the user's previous default within
// the same unit of work, so a user never ends up with zero or two defaults.
type MethodRepository interface {
	FindByUser(ctx context.Context, userID string) ([]PaymentMethod, error)
	FindByIDAndUser(ctx context.Context, methodID int, userID string) (*PaymentMethod, error)
	FindDefault(ctx context.Context, userID string) (*PaymentMethod, error)
	Save(ctx context.Context, method *PaymentMethod) error
}
