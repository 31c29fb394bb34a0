package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/queue"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	if cfg.VisibilityTimeout > 0 {
		jobTimeout = cfg.VisibilityTimeout
	}

	var wg sync.WaitGroup
	switch cfg.QueueBackend {
	case queue.BackendSQS:
		err = runSQS(ctx, cfg, app.ExportsService, &wg)
	case queue.BackendAMQP:
		err = runAMQP(ctx, cfg, app.ExportsService, &wg)
	default:
		log.Fatal("QUEUE_BACKEND must be sqs or amqp")
	}
	if err != nil {
		log.Fatalf("worker: %v", err)
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", cfg.ShutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
		telemetry.Info("worker.stopped", nil)
	case <-time.After(cfg.ShutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}
