package application

import (
	"sync"

	"github.com/microshop/payment-service/internal/notification"
)

type MockNotifier struct {
	mu        sync.Mutex
	Completed []notification.PaymentEvent
	Refunded  []notification.PaymentEvent
}

func (m *MockNotifier) PaymentCompleted(event notification.PaymentEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed = append(m.Completed, event)
}

func (m *MockNotifier) PaymentRefunded(event notification.PaymentEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refunded = append(m.Refunded, event)
}
