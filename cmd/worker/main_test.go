package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/streadway/amqp"

	"resume-builder/internal/exports"
	"resume-builder/internal/queue"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

type fakeSQS struct {
	deleted      []string
	deleteCtxErr error
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	f.deleteCtxErr = ctx.Err()
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	err    error
	calls  int
	ctxErr error
}

func (f *fakeProcessor) CreateForJob(ctx context.Context, jobID, owner string, rec model.Record, t render.Template) (exports.Export, error) {
	f.calls++
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return exports.Export{}, f.err
	}
	return exports.Export{ID: jobID, OwnerID: owner, Template: string(t), PageCount: 1}, nil
}

func jobBody(t *testing.T) string {
	t.Helper()
	body, err := queue.EncodeMessage(queue.Message{
		JobID:     "job-1",
		Owner:     "guest:ada",
		Template:  "timeline",
		Record:    model.Record{Name: "Ada"},
		RequestID: "req-1",
		Version:   queue.MessageVersion,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(body)
}

func sqsMessage(id, body string) sqstypes.Message {
	return sqstypes.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("r-" + id),
		Body:          aws.String(body),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{}

	handleMessage(context.Background(), client, "queue", proc, sqsMessage("m1", jobBody(t)))

	if len(client.deleted) != 1 || proc.calls != 1 {
		t.Fatalf("expected one print and one delete, got calls=%d deleted=%d", proc.calls, len(client.deleted))
	}
}

func TestWorkerFinishesJobsAfterShutdownSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeSQS{}
	proc := &fakeProcessor{}
	handleMessage(ctx, client, "queue", proc, sqsMessage("m9", jobBody(t)))
	if proc.ctxErr != nil || len(client.deleted) != 1 || client.deleteCtxErr != nil {
		t.Fatalf("expected the job to print and delete with a live context, got print=%v deleted=%d delete=%v",
			proc.ctxErr, len(client.deleted), client.deleteCtxErr)
	}

	ack := &fakeAcknowledger{}
	amqpProc := &fakeProcessor{}
	handleDelivery(ctx, amqpProc, amqp.Delivery{Acknowledger: ack, DeliveryTag: 9, Body: []byte(jobBody(t))})
	if amqpProc.ctxErr != nil || len(ack.acked) != 1 {
		t.Fatalf("expected the delivery to print and ack, got print=%v acks=%d", amqpProc.ctxErr, len(ack.acked))
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	proc := &fakeProcessor{err: errors.New("chrome crashed")}

	handleMessage(context.Background(), client, "queue", proc, sqsMessage("m2", jobBody(t)))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesUnprintableMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "invalid json", body: "{bad-json"},
		{name: "empty", body: "  "},
		{name: "unknown template", body: `{"jobId":"j","owner":"guest:a","template":"poster","version":1}`},
		{name: "missing owner", body: `{"jobId":"j","template":"marquee","version":1}`},
		{name: "rejected by service", body: jobBody(t), err: exports.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSQS{}
			handleMessage(context.Background(), client, "queue", &fakeProcessor{err: tt.err}, sqsMessage("m3", tt.body))
			if len(client.deleted) != 1 {
				t.Fatalf("expected delete, got %d", len(client.deleted))
			}
		})
	}
}

type fakeAcknowledger struct {
	acked    []uint64
	requeued []uint64
	rejected []uint64
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	if requeue {
		f.requeued = append(f.requeued, tag)
	} else {
		f.rejected = append(f.rejected, tag)
	}
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestHandleDelivery(t *testing.T) {
	body := []byte(jobBody(t))
	tests := []struct {
		name        string
		body        []byte
		redelivered bool
		err         error
		want        string
	}{
		{name: "printed", body: body, want: "acked"},
		{name: "first failure", body: body, err: errors.New("boom"), want: "requeued"},
		{name: "failure on redelivery", body: body, redelivered: true, err: errors.New("boom"), want: "rejected"},
		{name: "undecodable", body: []byte("nope"), want: "rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAcknowledger{}
			d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: tt.body, Redelivered: tt.redelivered}

			handleDelivery(context.Background(), &fakeProcessor{err: tt.err}, d)

			got := map[string]int{"acked": len(ack.acked), "requeued": len(ack.requeued), "rejected": len(ack.rejected)}
			for k, n := range got {
				want := 0
				if k == tt.want {
					want = 1
				}
				if n != want {
					t.Fatalf("expected only %s, got %v", tt.want, got)
				}
			}
		})
	}
}
