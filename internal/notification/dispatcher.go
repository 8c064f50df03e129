package notification

import (
	"context"
	"log"
	"time"
)

const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentRefunded  = "payment.refunded"
)

const defaultAttemptTimeout = 5 * time.Second

type PaymentEvent struct {
	Event         string
	PaymentID     int
	OrderID       int
	UserID        string
	Amount        float64
	Status        string
	TransactionID string
}

type OrderNotifier interface {
	UpdatePaymentStatus(ctx context.Context, orderID int, paymentStatus string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event PaymentEvent) error
}

// Dispatcher fans a payment event out to the order service and the event bus
// after the ledger commit. Delivery is at-most-once: each attempt gets its own
// timeout and failure boundary, failures are logged and never propagated, and
// nothing is retried. The ledger stays the source of truth and downstream
// consumers reconcile out of band.
type Dispatcher struct {
	orders    OrderNotifier
	publisher EventPublisher
	timeout   time.Duration
}

func NewDispatcher(orders OrderNotifier, publisher EventPublisher, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	return &Dispatcher{orders: orders, publisher: publisher, timeout: timeout}
}

func (d *Dispatcher) PaymentCompleted(event PaymentEvent) {
	event.Event = EventPaymentCompleted
	d.dispatch(event)
}

func (d *Dispatcher) PaymentRefunded(event PaymentEvent) {
	event.Event = EventPaymentRefunded
	d.dispatch(event)
}

// dispatch runs in the background so a slow collaborator never delays the
// response that the committed ledger record already justifies.
func (d *Dispatcher) dispatch(event PaymentEvent) {
	go func() {
		d.notifyOrderService(event)
		d.publishEvent(event)
	}()
}

func (d *Dispatcher) notifyOrderService(event PaymentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.orders.UpdatePaymentStatus(ctx, event.OrderID, event.Status); err != nil {
		log.Printf("Failed to update order status: order_id=%d payment_id=%d error=%v", event.OrderID, event.PaymentID, err)
	}
}

func (d *Dispatcher) publishEvent(event PaymentEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.publisher.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish payment event: event=%s payment_id=%d error=%v", event.Event, event.PaymentID, err)
	}
}
