package notification

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const paymentEventsExchange = "payment_events"

type eventEnvelope struct {
	Event string    `json:"event"`
	Data  eventData `json:"data"`
}

type eventData struct {
	PaymentID     int     `json:"paymentId"`
	OrderID       int     `json:"orderId"`
	UserID        string  `json:"userId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// RabbitMQPublisher publishes payment events to a durable topic exchange,
// routed by event name. Each publish opens its own connection; the broker is
// only touched after a ledger commit, so there is no long-lived channel to
// keep healthy.
type RabbitMQPublisher struct {
	url         string
	dialTimeout time.Duration
}

func NewRabbitMQPublisher(url string, dialTimeout time.Duration) *RabbitMQPublisher {
	if dialTimeout <= 0 {
		dialTimeout = defaultAttemptTimeout
	}
	return &RabbitMQPublisher{url: url, dialTimeout: dialTimeout}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event PaymentEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		return err
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()

	err = channel.ExchangeDeclare(paymentEventsExchange, "topic", true, false, false, false, nil)
	if err != nil {
		return err
	}

	body, err := json.Marshal(eventEnvelope{
		Event: event.Event,
		Data: eventData{
			PaymentID:     event.PaymentID,
			OrderID:       event.OrderID,
			UserID:        event.UserID,
			Amount:        event.Amount,
			Status:        event.Status,
			TransactionID: event.TransactionID,
		},
	})
	if err != nil {
		return err
	}

	return channel.PublishWithContext(ctx, paymentEventsExchange, event.Event, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
