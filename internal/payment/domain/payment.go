package domain

import (
	"context"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
)

type Payment struct {
	ID             int
	OrderID        int
	UserID         string
	Amount         float64
	Currency       string
	Status         string
	MethodType     string
	MethodLastFour string
	TransactionID  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentLedger is the durable store of payment records. Refund must execute
// its read-then-write against the record as a single atomic unit.
type PaymentLedger interface {
	Create(ctx context.Context, payment *Payment) error
	FindLatestByOrder(ctx context.Context, orderID int) (*Payment, error)
	Refund(ctx context.Context, paymentID int, userID string) (*Payment, error)
}
