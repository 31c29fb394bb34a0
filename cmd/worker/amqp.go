package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/streadway/amqp"

	"resume-builder/internal/queue"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/workerproc"
)

const amqpConsumerTag = "resume-worker"

// runAMQP consumes the export queue with manual acknowledgements until ctx
// is canceled or the broker closes the channel.
func runAMQP(ctx context.Context, cfg config.Config, proc workerproc.Processor, wg *sync.WaitGroup) error {
	if strings.TrimSpace(cfg.AMQPURL) == "" {
		return errors.New("AMQP_URL is required")
	}
	queueName := cfg.AMQPQueue
	if strings.TrimSpace(queueName) == "" {
		queueName = queue.DefaultAMQPQueue
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open amqp channel: %w", err)
	}
	concurrency := max(1, cfg.WorkerConcurrency)
	if err := ch.Qos(concurrency, 0, false); err != nil {
		conn.Close()
		return fmt.Errorf("set amqp qos: %w", err)
	}
	if err := queue.DeclareQueue(ch, queueName); err != nil {
		conn.Close()
		return err
	}
	deliveries, err := ch.Consume(queueName, amqpConsumerTag, false, false, false, false, nil)
	if err != nil {
		conn.Close()
		return fmt.Errorf("consume %s: %w", queueName, err)
	}
	log.Printf("worker started backend=amqp queue=%s concurrency=%d", queueName, concurrency)

	go func() {
		<-ctx.Done()
		if err := ch.Cancel(amqpConsumerTag, false); err != nil {
			log.Printf("cancel consumer: %v", err)
		}
	}()

	sem := make(chan struct{}, concurrency)
	for d := range deliveries {
		sem <- struct{}{}
		wg.Add(1)
		go func(d amqp.Delivery) {
			defer wg.Done()
			defer func() { <-sem }()
			handleDelivery(ctx, proc, d)
		}(d)
	}

	// The consumer is canceled; let in-flight jobs ack before the connection goes.
	go func() {
		wg.Wait()
		conn.Close()
	}()
	return nil
}

// handleDelivery prints one delivery. A failed job is requeued once; a
// failure on redelivery rejects it so the broker can dead-letter it.
func handleDelivery(ctx context.Context, proc workerproc.Processor, d amqp.Delivery) {
	ctx, cancel := jobContext(ctx)
	defer cancel()

	fields := map[string]any{
		"backend":      "amqp",
		"message_id":   d.MessageId,
		"delivery_tag": d.DeliveryTag,
		"redelivered":  d.Redelivered,
	}
	o := process(ctx, proc, string(d.Body), fields)

	var err error
	switch {
	case o == outcomeDone:
		err = d.Ack(false)
	case o == outcomeRetry && !d.Redelivered:
		err = d.Nack(false, true)
	default:
		o = outcomeDrop
		err = d.Nack(false, false)
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.export.ack_failed", fields)
		return
	}
	settle(o, fields)
}
