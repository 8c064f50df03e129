package interfaces

import (
	"context"

	"github.com/microshop/payment-service/internal/payment/domain"
)

type MockPaymentService struct {
	Payment *domain.Payment
	Err     error

	GotUserID    string
	GotOrderID   int
	GotAmount    float64
	GotCurrency  string
	GotMethodID  int
	GotPaymentID int
}

func NewMockPaymentService(payment *domain.Payment, err error) *MockPaymentService {
	return &MockPaymentService{Payment: payment, Err: err}
}

func (m *MockPaymentService) ProcessPayment(_ context.Context, userID string, orderID int, amount float64, currency string, methodID int) (*domain.Payment, error) {
	m.GotUserID = userID
	m.GotOrderID = orderID
	m.GotAmount = amount
	m.GotCurrency = currency
	m.GotMethodID = methodID
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Payment, nil
}

func (m *MockPaymentService) GetStatus(_ context.Context, userID string, orderID int) (*domain.Payment, error) {
	m.GotUserID = userID
	m.GotOrderID = orderID
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Payment, nil
}

func (m *MockPaymentService) Refund(_ context.Context, userID string, paymentID int, amount float64) (*domain.Payment, error) {
	m.GotUserID = userID
	m.GotPaymentID = paymentID
	m.GotAmount = amount
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Payment, nil
}
