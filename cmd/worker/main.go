package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/wholesale-platform/internal/config"
	"github.com/suPer8Hu/wholesale-platform/internal/db"
	"github.com/suPer8Hu/wholesale-platform/internal/notify"
	"github.com/suPer8Hu/wholesale-platform/internal/store/rabbitmq"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

// outcome is what the worker does with a delivery after handling it.
type outcome int

const (
	ack outcome = iota
	retry
	deadLetter
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Worker] .env: %v", err)
	}
	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("[Worker] db: %v", err)
	}

	dispatcher := notify.NewDispatcher(
		notify.NewRepo(gdb),
		notify.NewHTTPSender(cfg.NotifyAPIURL, cfg.NotifyAPIKey),
		nil,
		cfg.PublicBaseURL,
	)

	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("[Worker] rabbit publisher: %v", err)
	}
	defer pub.Close()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("[Worker] rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("[Worker] rabbit channel: %v", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("[Worker] declare topology: %v", err)
	}

	//  strict concurrency control
	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("[Worker] qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("[Worker] consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[Worker] started queue=%s concurrency=%d max_attempts=%d", cfg.RabbitQueue, concurrency, cfg.NotifyMaxAttempts)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m rabbitmq.JobMessage
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("[Worker] worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				switch handleJob(ctx, dispatcher, m.JobID, cfg.NotifyMaxAttempts) {
				case retry:
					if err := pub.PublishRetry(ctx, m.JobID, cfg.NotifyRetryDelay); err != nil {
						log.Printf("[Worker] worker=%d schedule retry job=%s failed: %v", workerID, m.JobID, err)
						_ = d.Nack(false, true)
						continue
					}
					log.Printf("[Worker] worker=%d job=%s retry in %s", workerID, m.JobID, cfg.NotifyRetryDelay)
					_ = d.Ack(false)
				case deadLetter:
					log.Printf("[Worker] worker=%d job=%s dead-lettered cost=%s", workerID, m.JobID, time.Since(start))
					_ = d.Nack(false, false)
				default:
					if err := d.Ack(false); err != nil {
						log.Printf("[Worker] worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
					}
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("[Worker] shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("[Worker] delivery channel closed")
				close(jobs)
				wg.Wait()
				return
			}
			jobs <- d
		}
	}
}

func handleJob(ctx context.Context, dispatcher *notify.Dispatcher, jobID string, maxAttempts int) outcome {
	err := dispatcher.Deliver(ctx, jobID)
	if err == nil || errors.Is(err, notify.ErrAlreadyHandled) {
		return ack
	}

	attempts, aerr := dispatcher.Attempts(ctx, jobID)
	if aerr != nil {
		log.Printf("[Worker] job=%s deliver failed: %v; attempts unknown: %v", jobID, err, aerr)
		return deadLetter
	}
	log.Printf("[Worker] job=%s attempt %d/%d failed: %v", jobID, attempts, maxAttempts, err)
	if attempts < maxAttempts {
		return retry
	}
	return deadLetter
}
