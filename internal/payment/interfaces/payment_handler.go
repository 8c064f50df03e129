package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/microshop/payment-service/internal/payment/domain"
	paymentErrors "github.com/microshop/payment-service/internal/payment/errors"
)

type PaymentServiceInterface interface {
	ProcessPayment(ctx context.Context, userID string, orderID int, amount float64, currency string, methodID int) (*domain.Payment, error)
	GetStatus(ctx context.Context, userID string, orderID int) (*domain.Payment, error)
	Refund(ctx context.Context, userID string, paymentID int, amount float64) (*domain.Payment, error)
}

type PaymentHandler struct {
	service      PaymentServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewPaymentHandler(
	service PaymentServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *PaymentHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &PaymentHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type processPaymentRequest struct {
	OrderID         int     `json:"orderId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	PaymentMethodID int     `json:"paymentMethodId"`
}

type refundRequest struct {
	Amount float64 `json:"amount"`
}

type paymentMethodSnapshot struct {
	Type     string `json:"type"`
	LastFour string `json:"lastFour"`
}

type paymentResponse struct {
	ID            int                   `json:"id"`
	OrderID       int                   `json:"orderId"`
	Amount        float64               `json:"amount"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	PaymentMethod paymentMethodSnapshot `json:"paymentMethod"`
	TransactionID string                `json:"transactionId"`
	CreatedAt     string                `json:"createdAt"`
}

func newPaymentResponse(payment *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:       payment.ID,
		OrderID:  payment.OrderID,
		Amount:   payment.Amount,
		Currency: payment.Currency,
		Status:   payment.Status,
		PaymentMethod: paymentMethodSnapshot{
			Type:     payment.MethodType,
			LastFour: payment.MethodLastFour,
		},
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt.Format(time.RFC3339),
	}
}

func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.service.ProcessPayment(r.Context(), userID, req.OrderID, req.Amount, req.Currency, req.PaymentMethodID)
	if err != nil {
		switch {
		case paymentErrors.IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paymentErrors.ErrMethodNotFound):
			h.respondError(w, http.StatusNotFound, "Payment method not found")
		case errors.Is(err, paymentErrors.ErrNoDefaultMethod):
			h.respondError(w, http.StatusBadRequest, "No default payment method found")
		default:
			log.Printf("Error during payment processing: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to process payment")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, newPaymentResponse(payment))
}

func (h *PaymentHandler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID, err := strconv.Atoi(r.PathValue("orderID"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	payment, err := h.service.GetStatus(r.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, paymentErrors.ErrPaymentNotFound):
			h.respondError(w, http.StatusNotFound, "Payment not found")
		case errors.Is(err, paymentErrors.ErrForbidden):
			h.respondError(w, http.StatusForbidden, "Unauthorized access")
		default:
			log.Printf("Error during payment status lookup: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to retrieve payment")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, newPaymentResponse(payment))
}

func (h *PaymentHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	paymentID, err := strconv.Atoi(r.PathValue("paymentID"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	// The body is optional; omitting it refunds the full amount.
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.service.Refund(r.Context(), userID, paymentID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, paymentErrors.ErrPaymentNotFound):
			h.respondError(w, http.StatusNotFound, "Payment not found")
		case errors.Is(err, paymentErrors.ErrForbidden):
			h.respondError(w, http.StatusForbidden, "Unauthorized access")
		case errors.Is(err, paymentErrors.ErrInvalidPaymentState):
			h.respondError(w, http.StatusBadRequest, "Only completed payments can be refunded")
		default:
			log.Printf("Error during refund: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to refund payment")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, newPaymentResponse(payment))
}
