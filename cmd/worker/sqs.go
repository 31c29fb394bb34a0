package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/workerproc"
)

const defaultSQSRegion = "us-east-1"

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// runSQS long-polls the export queue until ctx is canceled. Jobs run on up
// to cfg.WorkerConcurrency goroutines tracked by wg.
func runSQS(ctx context.Context, cfg config.Config, proc workerproc.Processor, wg *sync.WaitGroup) error {
	queueURL := strings.TrimSpace(cfg.ExportQueueURL)
	if queueURL == "" {
		return errors.New("EXPORT_QUEUE_URL is required")
	}
	region := cfg.AWSRegion
	if strings.TrimSpace(region) == "" {
		region = defaultSQSRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	var client sqsAPI = sqs.NewFromConfig(awsCfg)

	visibility := int32(cfg.VisibilityTimeout.Seconds())
	sem := make(chan struct{}, max(1, cfg.WorkerConcurrency))
	log.Printf("worker started backend=sqs queue=%s concurrency=%d visibility=%ds", queueURL, cap(sem), visibility)

	for {
		if ctx.Err() != nil {
			return nil
		}
		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   visibility,
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				return nil
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, client, queueURL, proc, m)
			}(msg)
		}
	}
}

// handleMessage prints one SQS message. Failed jobs stay on the queue and
// reappear once the visibility timeout lapses.
func handleMessage(ctx context.Context, client sqsAPI, queueURL string, proc workerproc.Processor, msg sqstypes.Message) {
	ctx, cancel := jobContext(ctx)
	defer cancel()

	fields := baseFields(msg)
	o := process(ctx, proc, aws.ToString(msg.Body), fields)
	if o == outcomeRetry {
		return
	}
	if deleteMessage(ctx, client, queueURL, msg, fields) {
		settle(o, fields)
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, fields map[string]any) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.export.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.export.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message) map[string]any {
	return map[string]any{
		"backend":        "sqs",
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
}

func receiveCount(msg sqstypes.Message) int {
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
