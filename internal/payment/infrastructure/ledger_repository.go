package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

type PaymentLedgerRepository struct {
	db *sql.DB
}

func NewPaymentLedgerRepository(db *sql.DB) *PaymentLedgerRepository {
	return &PaymentLedgerRepository{db: db}
}

// Create persists a new payment. Settlement is simulated: the record is
// written already completed, with a freshly generated transaction identifier.
func (r *PaymentLedgerRepository) Create(ctx context.Context, payment *domain.Payment) error {
	now := time.Now().UTC()
	payment.Status = domain.StatusCompleted
	payment.TransactionID = uuid.New().String()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
        INSERT INTO payments (order_id, user_id, amount, currency, status, payment_method_type, payment_method_last_four, transaction_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	return r.db.QueryRowContext(ctx, query,
		payment.OrderID, payment.UserID, payment.Amount, payment.Currency, payment.Status,
		payment.MethodType, payment.MethodLastFour, payment.TransactionID, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
}

func (r *PaymentLedgerRepository) FindLatestByOrder(ctx context.Context, orderID int) (*domain.Payment, error) {
	query := `
        SELECT id, order_id, user_id, amount, currency, status, payment_method_type, payment_method_last_four, transaction_id, created_at, updated_at
        FROM payments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1
    `
	var payment domain.Payment
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&payment.ID, &payment.OrderID, &payment.UserID, &payment.Amount, &payment.Currency, &payment.Status,
		&payment.MethodType, &payment.MethodLastFour, &payment.TransactionID, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, paymentErrors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Refund moves a completed payment to refunded. The read and the write run in
// one transaction with the row locked, so two concurrent refunds of the same
// payment cannot both observe the completed status.
func (r *PaymentLedgerRepository) Refund(ctx context.Context, paymentID int, userID string) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
        SELECT id, order_id, user_id, amount, currency, status, payment_method_type, payment_method_last_four, transaction_id, created_at, updated_at
        FROM payments WHERE id = $1 FOR UPDATE
    `
	var payment domain.Payment
	err = tx.QueryRowContext(ctx, query, paymentID).Scan(
		&payment.ID, &payment.OrderID, &payment.UserID, &payment.Amount, &payment.Currency, &payment.Status,
		&payment.MethodType, &payment.MethodLastFour, &payment.TransactionID, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, paymentErrors.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	if payment.UserID != userID {
		return nil, paymentErrors.ErrForbidden
	}
	if payment.Status != domain.StatusCompleted {
		return nil, paymentErrors.ErrInvalidPaymentState
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.StatusRefunded, now, payment.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	payment.Status = domain.StatusRefunded
	payment.UpdatedAt = now
	return &payment, nil
}
