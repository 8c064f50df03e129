package application

import (
	"context"
	"log"

	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

const methodTypeCreditCard = "credit_card"

type MethodService struct {
	repo domain.MethodRepository
}

func NewMethodService(repo domain.MethodRepository) *MethodService {
	return &MethodService{repo: repo}
}

func (s *MethodService) ListMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	methods, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if methods == nil {
		return []domain.PaymentMethod{}, nil
	}
	return methods, nil
}

func (s *MethodService) AddMethod(ctx context.Context, method *domain.PaymentMethod) error {
	if method.Type == "" {
		return paymentErrors.NewValidationError("Payment method type is required")
	}
	if method.Type == methodTypeCreditCard && (method.LastFour == "" || method.ExpiryDate == "") {
		return paymentErrors.NewValidationError("Last four digits and expiry date are required for credit cards")
	}

	if err := s.repo.Save(ctx, method); err != nil {
		return err
	}
	log.Printf("Payment method added: method_id=%d user_id=%s", method.ID, method.UserID)
	return nil
}
