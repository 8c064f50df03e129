package application

import (
	"context"
	"testing"

	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
	"github.com/microshop/payment-service/internal/payment/infrastructure"
	"github.com/stretchr/testify/assert"
)

func newTestService(methods []domain.PaymentMethod) (*PaymentService, *infrastructure.MockPaymentLedger, *MockNotifier) {
	ledger := &infrastructure.MockPaymentLedger{}
	methodRepo := &infrastructure.MockMethodRepository{Methods: methods}
	notifier := &MockNotifier{}
	return NewPaymentService(ledger, methodRepo, notifier), ledger, notifier
}

func defaultCard(userID string) domain.PaymentMethod {
	return domain.PaymentMethod{ID: 1, UserID: userID, Type: "credit_card", LastFour: "4242", ExpiryDate: "12/2027", IsDefault: true}
}

func TestProcessPayment_UsesDefaultMethod(t *testing.T) {
	service, _, notifier := newTestService([]domain.PaymentMethod{defaultCard("user-1")})

	payment, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, payment.Status)
	assert.NotEmpty(t, payment.TransactionID)
	assert.Equal(t, 7, payment.OrderID)
	assert.Equal(t, 50.0, payment.Amount)
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, "credit_card", payment.MethodType)
	assert.Equal(t, "4242", payment.MethodLastFour)

	if assert.Len(t, notifier.Completed, 1) {
		event := notifier.Completed[0]
		assert.Equal(t, payment.ID, event.PaymentID)
		assert.Equal(t, 7, event.OrderID)
		assert.Equal(t, "user-1", event.UserID)
		assert.Equal(t, 50.0, event.Amount)
		assert.Equal(t, domain.StatusCompleted, event.Status)
		assert.Equal(t, payment.TransactionID, event.TransactionID)
	}
}

func TestProcessPayment_ExplicitMethod(t *testing.T) {
	methods := []domain.PaymentMethod{
		defaultCard("user-1"),
		{ID: 2, UserID: "user-1", Type: "credit_card", LastFour: "1881", ExpiryDate: "01/2028"},
	}
	service, _, _ := newTestService(methods)

	payment, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "EUR", 2)
	assert.NoError(t, err)
	assert.Equal(t, "1881", payment.MethodLastFour)
	assert.Equal(t, "EUR", payment.Currency)
}

func TestProcessPayment_MethodOfAnotherUser(t *testing.T) {
	methods := []domain.PaymentMethod{
		{ID: 1, UserID: "user-2", Type: "credit_card", LastFour: "9999", ExpiryDate: "01/2028", IsDefault: true},
	}
	service, _, notifier := newTestService(methods)

	_, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 1)
	assert.ErrorIs(t, err, paymentErrors.ErrMethodNotFound)
	assert.Empty(t, notifier.Completed)
}

func TestProcessPayment_NoDefaultMethod(t *testing.T) {
	service, _, _ := newTestService(nil)

	_, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.ErrorIs(t, err, paymentErrors.ErrNoDefaultMethod)
}

func TestProcessPayment_Validation(t *testing.T) {
	service, ledger, notifier := newTestService([]domain.PaymentMethod{defaultCard("user-1")})

	_, err := service.ProcessPayment(context.Background(), "user-1", 0, 50, "", 0)
	assert.True(t, paymentErrors.IsValidationError(err))

	_, err = service.ProcessPayment(context.Background(), "user-1", 7, 0, "", 0)
	assert.True(t, paymentErrors.IsValidationError(err))

	_, err = service.ProcessPayment(context.Background(), "user-1", 7, -10, "", 0)
	assert.True(t, paymentErrors.IsValidationError(err))

	assert.Empty(t, ledger.Payments)
	assert.Empty(t, notifier.Completed)
}

func TestProcessPayment_SnapshotSurvivesMethodChange(t *testing.T) {
	methodRepo := &infrastructure.MockMethodRepository{Methods: []domain.PaymentMethod{defaultCard("user-1")}}
	ledger := &infrastructure.MockPaymentLedger{}
	service := NewPaymentService(ledger, methodRepo, &MockNotifier{})

	payment, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.NoError(t, err)

	// A new default must not rewrite the snapshot on the recorded payment.
	err = methodRepo.Save(context.Background(), &domain.PaymentMethod{
		UserID: "user-1", Type: "credit_card", LastFour: "0005", ExpiryDate: "05/2029", IsDefault: true,
	})
	assert.NoError(t, err)

	stored, err := ledger.FindLatestByOrder(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, payment.MethodLastFour, stored.MethodLastFour)
	assert.Equal(t, "4242", stored.MethodLastFour)
}

func TestGetStatus(t *testing.T) {
	service, _, _ := newTestService([]domain.PaymentMethod{defaultCard("user-1")})

	created, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.NoError(t, err)

	payment, err := service.GetStatus(context.Background(), "user-1", 7)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, payment.ID)

	_, err = service.GetStatus(context.Background(), "user-2", 7)
	assert.ErrorIs(t, err, paymentErrors.ErrForbidden)

	_, err = service.GetStatus(context.Background(), "user-1", 404)
	assert.ErrorIs(t, err, paymentErrors.ErrPaymentNotFound)
}

func TestRefund(t *testing.T) {
	service, ledger, notifier := newTestService([]domain.PaymentMethod{defaultCard("user-1")})

	created, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.NoError(t, err)

	refunded, err := service.Refund(context.Background(), "user-1", created.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)
	assert.Equal(t, 50.0, refunded.Amount)

	// No caller amount: the full original amount goes into the event.
	if assert.Len(t, notifier.Refunded, 1) {
		assert.Equal(t, 50.0, notifier.Refunded[0].Amount)
		assert.Equal(t, domain.StatusRefunded, notifier.Refunded[0].Status)
		assert.Empty(t, notifier.Refunded[0].TransactionID)
	}

	// The ledger record keeps its amount.
	stored, err := ledger.FindLatestByOrder(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, stored.Amount)

	_, err = service.Refund(context.Background(), "user-1", created.ID, 0)
	assert.ErrorIs(t, err, paymentErrors.ErrInvalidPaymentState)
	assert.Len(t, notifier.Refunded, 1)
}

func TestRefund_PartialAmountInEvent(t *testing.T) {
	service, _, notifier := newTestService([]domain.PaymentMethod{defaultCard("user-1")})

	created, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.NoError(t, err)

	refunded, err := service.Refund(context.Background(), "user-1", created.ID, 20)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, refunded.Amount)
	if assert.Len(t, notifier.Refunded, 1) {
		assert.Equal(t, 20.0, notifier.Refunded[0].Amount)
	}
}

func TestRefund_Errors(t *testing.T) {
	service, _, notifier := newTestService([]domain.PaymentMethod{defaultCard("user-1")})

	created, err := service.ProcessPayment(context.Background(), "user-1", 7, 50, "", 0)
	assert.NoError(t, err)

	_, err = service.Refund(context.Background(), "user-2", created.ID, 0)
	assert.ErrorIs(t, err, paymentErrors.ErrForbidden)

	_, err = service.Refund(context.Background(), "user-1", 404, 0)
	assert.ErrorIs(t, err, paymentErrors.ErrPaymentNotFound)

	assert.Empty(t, notifier.Refunded)
}
