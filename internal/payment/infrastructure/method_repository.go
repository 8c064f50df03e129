package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

type PaymentMethodRepository struct {
	db *sql.DB
}

func NewPaymentMethodRepository(db *sql.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) FindByUser(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	query := `
        SELECT id, user_id, type, last_four, expiry_date, is_default, created_at, updated_at
        FROM payment_methods WHERE user_id = $1 ORDER BY created_at
    `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var method domain.PaymentMethod
		if err := rows.Scan(&method.ID, &method.UserID, &method.Type, &method.LastFour,
			&method.ExpiryDate, &method.IsDefault, &method.CreatedAt, &method.UpdatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *PaymentMethodRepository) FindByIDAndUser(ctx context.Context, methodID int, userID string) (*domain.PaymentMethod, error) {
	query := `
        SELECT id, user_id, type, last_four, expiry_date, is_default, created_at, updated_at
        FROM payment_methods WHERE id = $1 AND user_id = $2
    `
	var method domain.PaymentMethod
	err := r.db.QueryRowContext(ctx, query, methodID, userID).Scan(
		&method.ID, &method.UserID, &method.Type, &method.LastFour,
		&method.ExpiryDate, &method.IsDefault, &method.CreatedAt, &method.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, paymentErrors.ErrMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *PaymentMethodRepository) FindDefault(ctx context.Context, userID string) (*domain.PaymentMethod, error) {
	query := `
        SELECT id, user_id, type, last_four, expiry_date, is_default, created_at, updated_at
        FROM payment_methods WHERE user_id = $1 AND is_default = TRUE
    `
	var method domain.PaymentMethod
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&method.ID, &method.UserID, &method.Type, &method.LastFour,
		&method.ExpiryDate, &method.IsDefault, &method.CreatedAt, &method.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, paymentErrors.ErrNoDefaultMethod
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// Save inserts a new payment method. When the method is marked default, the
// user's previous default is cleared in the same transaction so concurrent
// saves can never leave zero or two defaults.
func (r *PaymentMethodRepository) Save(ctx context.Context, method *domain.PaymentMethod) error {
	now := time.Now().UTC()
	method.CreatedAt = now
	method.UpdatedAt = now

	insert := `
        INSERT INTO payment_methods (user_id, type, last_four, expiry_date, is_default, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	if !method.IsDefault {
		return r.db.QueryRowContext(ctx, insert,
			method.UserID, method.Type, method.LastFour, method.ExpiryDate,
			method.IsDefault, method.CreatedAt, method.UpdatedAt,
		).Scan(&method.ID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Under READ COMMITTED, two concurrent saves could each clear nothing and
	// both insert a default. The per-user advisory lock serializes them for
	// the duration of the transaction; the partial unique index on
	// payment_methods backs this up at the schema level.
	_, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, method.UserID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payment_methods SET is_default = FALSE, updated_at = $2 WHERE user_id = $1 AND is_default = TRUE`,
		method.UserID, now,
	)
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx, insert,
		method.UserID, method.Type, method.LastFour, method.ExpiryDate,
		method.IsDefault, method.CreatedAt, method.UpdatedAt,
	).Scan(&method.ID)
	if err != nil {
		return err
	}
	return tx.Commit()
}
