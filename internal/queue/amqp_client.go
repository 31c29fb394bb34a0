package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/streadway/amqp"
)

// DefaultAMQPQueue is the durable queue export jobs are published to.
const DefaultAMQPQueue = "resume-exports"

// AMQPChannel is the subset of *amqp.Channel the sender uses.
type AMQPChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPClient publishes export jobs to a RabbitMQ queue on the default exchange.
type AMQPClient struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    AMQPChannel
	queue string
}

// NewAMQPClient dials the broker and declares the durable job queue.
func NewAMQPClient(url, queueName string) (*AMQPClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("AMQP_URL is required")
	}
	if strings.TrimSpace(queueName) == "" {
		queueName = DefaultAMQPQueue
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := DeclareQueue(ch, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPClient{conn: conn, ch: ch, queue: queueName}, nil
}

// NewAMQPClientWith wires an existing channel.
func NewAMQPClientWith(ch AMQPChannel, queueName string) *AMQPClient {
	return &AMQPClient{ch: ch, queue: queueName}
}

// DeclareQueue declares the durable job queue.
func DeclareQueue(ch *amqp.Channel, queueName string) error {
	_, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare amqp queue: %w", err)
	}
	return nil
}

// Send publishes a persistent message. Channels are not safe for concurrent
// publishing, so sends are serialized.
func (a *AMQPClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode amqp message: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	err = a.ch.Publish("", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.JobID,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (a *AMQPClient) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var firstErr error
	if a.ch != nil {
		firstErr = a.ch.Close()
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ Client = (*AMQPClient)(nil)
