package rabbitmq

import (
	"fmt"
	"log"

	amqp "github.com/streadway/amqp"
)

const orderEventsQueue = "order_events"

// Client holds the RabbitMQ connection and channel used for order lifecycle
// events.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// order events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		orderEventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", orderEventsQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s queue declared.", orderEventsQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a JSON message to the order events queue. The event type
// (e.g. "order.created") travels in the message's Type property.
func (c *Client) Publish(eventType string, body []byte) error {
	err := c.channel.Publish(
		"",               // default exchange
		orderEventsQueue, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         eventType,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// ConsumeOrderEvents starts delivering order events to handler. A handler
// error nacks the message with requeue; nil acks it. The call blocks until
// the channel is closed.
func (c *Client) ConsumeOrderEvents(handler func(amqp.Delivery) error) error {
	msgs, err := c.channel.Consume(
		orderEventsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", orderEventsQueue, err)
	}

	for msg := range msgs {
		if err := handler(msg); err != nil {
			log.Printf("Error handling message (tag %d): %v", msg.DeliveryTag, err)
			if nackErr := msg.Nack(false, true); nackErr != nil {
				log.Printf("Failed to nack message: %v", nackErr)
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Printf("Failed to ack message: %v", ackErr)
		}
	}
	return nil
}
