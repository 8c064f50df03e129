package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

// MockPaymentLedger is an in-memory PaymentLedger with the same transition
// rules as the Postgres repository.
type MockPaymentLedger struct {
	mu       sync.Mutex
	Payments []domain.Payment
	Err      error
}

func (m *MockPaymentLedger) Create(_ context.Context, payment *domain.Payment) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	payment.ID = len(m.Payments) + 1
	payment.Status = domain.StatusCompleted
	payment.TransactionID = uuid.New().String()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	m.Payments = append(m.Payments, *payment)
	return nil
}

func (m *MockPaymentLedger) FindLatestByOrder(_ context.Context, orderID int) (*domain.Payment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Payments) - 1; i >= 0; i-- {
		if m.Payments[i].OrderID == orderID {
			payment := m.Payments[i]
			return &payment, nil
		}
	}
	return nil, paymentErrors.ErrPaymentNotFound
}

func (m *MockPaymentLedger) Refund(_ context.Context, paymentID int, userID string) (*domain.Payment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Payments {
		if m.Payments[i].ID != paymentID {
			continue
		}
		if m.Payments[i].UserID != userID {
			return nil, paymentErrors.ErrForbidden
		}
		if m.Payments[i].Status != domain.StatusCompleted {
			return nil, paymentErrors.ErrInvalidPaymentState
		}
		m.Payments[i].Status = domain.StatusRefunded
		m.Payments[i].UpdatedAt = time.Now().UTC()
		payment := m.Payments[i]
		return &payment, nil
	}
	return nil, paymentErrors.ErrPaymentNotFound
}

// MockMethodRepository is an in-memory MethodRepository preserving the
// at-most-one-default rule.
type MockMethodRepository struct {
	mu      sync.Mutex
	Methods []domain.PaymentMethod
	Err     error
}

func (m *MockMethodRepository) FindByUser(_ context.Context, userID string) ([]domain.PaymentMethod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var methods []domain.PaymentMethod
	for _, method := range m.Methods {
		if method.UserID == userID {
			methods = append(methods, method)
		}
	}
	return methods, nil
}

func (m *MockMethodRepository) FindByIDAndUser(_ context.Context, methodID int, userID string) (*domain.PaymentMethod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, method := range m.Methods {
		if method.ID == methodID && method.UserID == userID {
			found := method
			return &found, nil
		}
	}
	return nil, paymentErrors.ErrMethodNotFound
}

func (m *MockMethodRepository) FindDefault(_ context.Context, userID string) (*domain.PaymentMethod, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, method := range m.Methods {
		if method.UserID == userID && method.IsDefault {
			found := method
			return &found, nil
		}
	}
	return nil, paymentErrors.ErrNoDefaultMethod
}

func (m *MockMethodRepository) Save(_ context.Context, method *domain.PaymentMethod) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if method.IsDefault {
		for i := range m.Methods {
			if m.Methods[i].UserID == method.UserID && m.Methods[i].IsDefault {
				m.Methods[i].IsDefault = false
				m.Methods[i].UpdatedAt = now
			}
		}
	}
	method.ID = len(m.Methods) + 1
	method.CreatedAt = now
	method.UpdatedAt = now
	m.Methods = append(m.Methods, *method)
	return nil
}
