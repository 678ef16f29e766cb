package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"grubz/internal/order"
)

// RabbitMQ publishes order events to a durable topic exchange so external
// consumers (notification workers, analytics) can follow the order stream
// without a connection to this process. Routing key is orders.<status>.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// ConnectRabbitMQ dials the broker and declares the exchange.
func ConnectRabbitMQ(url, exchange string) (*RabbitMQ, error) {
	if exchange == "" {
		exchange = "orders_topic"
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitMQ{conn: conn, channel: channel, exchange: exchange}, nil
}

// Close shuts down the channel and connection.
func (r *RabbitMQ) Close() {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

// PublishOrderEvent implements order.EventPublisher.
func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, evt order.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	routingKey := fmt.Sprintf("orders.%s", evt.Order.Status)
	return r.channel.PublishWithContext(ctx,
		r.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
}
