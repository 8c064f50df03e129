package interfaces

import (
	"context"

	"github.com/microshop/payment-service/internal/payment/domain"
)

type MockMethodService struct {
	Methods []domain.PaymentMethod
	Err     error

	GotUserID string
	Saved     *domain.PaymentMethod
}

func NewMockMethodService(methods []domain.PaymentMethod, err error) *MockMethodService {
	return &MockMethodService{Methods: methods, Err: err}
}

func (m *MockMethodService) ListMethods(_ context.Context, userID string) ([]domain.PaymentMethod, error) {
	m.GotUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Methods, nil
}

func (m *MockMethodService) AddMethod(_ context.Context, method *domain.PaymentMethod) error {
	if m.Err != nil {
		return m.Err
	}
	method.ID = len(m.Methods) + 1
	m.Saved = method
	return nil
}
