package application

import (
	"context"
	"log"

	"github.com/microshop/payment-service/internal/notification"
	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

const defaultCurrency = "USD"

// Notifier receives a payment event after the ledger commit. Implementations
// are best-effort and must never fail the caller.
type Notifier interface {
	PaymentCompleted(event notification.PaymentEvent)
	PaymentRefunded(event notification.PaymentEvent)
}

// PaymentService is the payment workflow: it resolves the instrument to
// charge, commits the ledger record, and only then hands the event to the
// notifier. The authenticated userID is established once at the HTTP boundary
// and threaded through explicitly.
type PaymentService struct {
	ledger   domain.PaymentLedger
	methods  domain.MethodRepository
	notifier Notifier
}

func NewPaymentService(ledger domain.PaymentLedger, methods domain.MethodRepository, notifier Notifier) *PaymentService {
	return &PaymentService{ledger: ledger, methods: methods, notifier: notifier}
}

func (s *PaymentService) ProcessPayment(ctx context.Context, userID string, orderID int, amount float64, currency string, methodID int) (*domain.Payment, error) {
	if orderID == 0 || amount == 0 {
		return nil, paymentErrors.NewValidationError("Order ID and amount are required")
	}
	if amount < 0 {
		return nil, paymentErrors.NewValidationError("Amount must be positive")
	}
	if currency == "" {
		currency = defaultCurrency
	}

	method, err := s.resolveMethod(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}

	// The method snapshot is copied here and never re-read: later edits to
	// the stored instrument must not change what this payment recorded.
	payment := &domain.Payment{
		OrderID:        orderID,
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		MethodType:     method.Type,
		MethodLastFour: method.LastFour,
	}
	if err := s.ledger.Create(ctx, payment); err != nil {
		return nil, err
	}
	log.Printf("Payment processed: payment_id=%d order_id=%d", payment.ID, payment.OrderID)

	s.notifier.PaymentCompleted(notification.PaymentEvent{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
		Amount:        payment.Amount,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
	})
	return payment, nil
}

// resolveMethod picks the instrument to charge: the explicit choice when one
// is given (it must belong to the user), the user's default otherwise.
func (s *PaymentService) resolveMethod(ctx context.Context, userID string, methodID int) (*domain.PaymentMethod, error) {
	if methodID != 0 {
		return s.methods.FindByIDAndUser(ctx, methodID, userID)
	}
	return s.methods.FindDefault(ctx, userID)
}

func (s *PaymentService) GetStatus(ctx context.Context, userID string, orderID int) (*domain.Payment, error) {
	payment, err := s.ledger.FindLatestByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, paymentErrors.ErrForbidden
	}
	return payment, nil
}

func (s *PaymentService) Refund(ctx context.Context, userID string, paymentID int, amount float64) (*domain.Payment, error) {
	payment, err := s.ledger.Refund(ctx, paymentID, userID)
	if err != nil {
		return nil, err
	}
	log.Printf("Payment refunded: payment_id=%d order_id=%d", payment.ID, payment.OrderID)

	// The refunded amount feeds the notification only; the ledger record's
	// amount field stays untouched.
	refundAmount := amount
	if refundAmount <= 0 {
		refundAmount = payment.Amount
	}
	s.notifier.PaymentRefunded(notification.PaymentEvent{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		UserID:    payment.UserID,
		Amount:    refundAmount,
		Status:    payment.Status,
	})
	return payment, nil
}
