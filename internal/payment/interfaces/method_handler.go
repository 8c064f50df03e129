package interfaces

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

type MethodServiceInterface interface {
	ListMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	AddMethod(ctx context.Context, method *domain.PaymentMethod) error
}

type MethodHandler struct {
	service      MethodServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewMethodHandler(
	service MethodServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *MethodHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &MethodHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type addMethodRequest struct {
	Type       string `json:"type"`
	LastFour   string `json:"lastFour"`
	ExpiryDate string `json:"expiryDate"`
	IsDefault  bool   `json:"isDefault"`
}

type methodResponse struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	LastFour   string `json:"lastFour"`
	ExpiryDate string `json:"expiryDate"`
	IsDefault  bool   `json:"isDefault"`
}

func newMethodResponse(method *domain.PaymentMethod) methodResponse {
	return methodResponse{
		ID:         method.ID,
		Type:       method.Type,
		LastFour:   method.LastFour,
		ExpiryDate: method.ExpiryDate,
		IsDefault:  method.IsDefault,
	}
}

func (h *MethodHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	methods, err := h.service.ListMethods(r.Context(), userID)
	if err != nil {
		log.Printf("Error during payment method listing: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve payment methods")
		return
	}

	result := make([]methodResponse, 0, len(methods))
	for i := range methods {
		result = append(result, newMethodResponse(&methods[i]))
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *MethodHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req addMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	method := &domain.PaymentMethod{
		UserID:     userID,
		Type:       req.Type,
		LastFour:   req.LastFour,
		ExpiryDate: req.ExpiryDate,
		IsDefault:  req.IsDefault,
	}
	if err := h.service.AddMethod(r.Context(), method); err != nil {
		if paymentErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error during payment method creation: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to add payment method")
		return
	}

	h.respondJSON(w, http.StatusCreated, newMethodResponse(method))
}
