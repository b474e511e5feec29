package events

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/preneur/storefront-api/pkg/models"
)

const (
	exchangeName    = "storefront.events"
	orderCreatedKey = "order.created"
)

var (
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
)

// InitPublisher connects to RabbitMQ when AMQP_URL is set. Publishing is
// best-effort: the API runs fine without a broker, and a publish failure
// never fails the request that triggered it.
func InitPublisher() {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		log.Println("AMQP_URL not set, order events disabled")
		return
	}

	c, err := amqp.Dial(url)
	if err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ: %v", err)
		return
	}

	ch, err := c.Channel()
	if err != nil {
		log.Printf("Warning: failed to open RabbitMQ channel: %v", err)
		c.Close()
		return
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		log.Printf("Warning: failed to declare exchange %s: %v", exchangeName, err)
		ch.Close()
		c.Close()
		return
	}

	mu.Lock()
	conn = c
	channel = ch
	mu.Unlock()

	log.Printf("Connected to RabbitMQ, publishing to exchange %s", exchangeName)
}

// ClosePublisher releases the broker connection on shutdown.
func ClosePublisher() {
	mu.Lock()
	defer mu.Unlock()

	if channel != nil {
		channel.Close()
		channel = nil
	}
	if conn != nil {
		conn.Close()
		conn = nil
	}
}

type orderCreatedEvent struct {
	OrderID     string       `json:"orderId"`
	UserID      string       `json:"userId"`
	TotalAmount models.Money `json:"totalAmount"`
	ItemCount   int          `json:"itemCount"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// PublishOrderCreated emits an order.created event for downstream consumers
// (fulfillment, email). Errors are logged, not returned, so the checkout
// response never depends on the broker.
func PublishOrderCreated(ctx context.Context, order *models.PopulatedOrder) {
	mu.Lock()
	ch := channel
	mu.Unlock()
	if ch == nil {
		return
	}

	event := orderCreatedEvent{
		OrderID:     order.ID.Hex(),
		UserID:      order.User.Hex(),
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: failed to marshal order event: %v", err)
		return
	}

	err = ch.PublishWithContext(ctx, exchangeName, orderCreatedKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		log.Printf("Warning: failed to publish order.created for %s: %v", event.OrderID, err)
	}
}
