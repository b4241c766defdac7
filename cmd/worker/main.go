package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"facegate/internal/config"
	"facegate/internal/metrics"
	"facegate/internal/model"
	"facegate/internal/postgres"
	"facegate/internal/queue"
	"facegate/internal/store"
)

// The worker consumes checkin.recorded messages and records notification
// deliveries. Actual mail transport is a deployment concern; this process
// owns the durable delivery ledger and the dispatch log.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "facegate:checkins")
	}

	repos := postgres.New(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "checkin.recorded" {
			continue
		}

		var payload queue.CheckInRecorded
		if err := json.Unmarshal(msg.Body, &payload); err != nil {
			log.Printf("malformed payload: %v", err)
			continue
		}

		rec, err := repos.Attendance.ByID(ctx, payload.RecordID)
		if err != nil {
			log.Printf("fetch record %s failed: %v", payload.RecordID, err)
			continue
		}
		if rec == nil {
			log.Printf("record %s not found, skipping", payload.RecordID)
			continue
		}

		if _, err := repos.Notifications.Record(ctx, model.Notification{
			RecordID:  rec.ID,
			StudentID: rec.StudentID,
			ClassID:   rec.ClassID,
			Status:    string(rec.Status),
		}); err != nil {
			log.Printf("notification record for %s failed: %v", rec.ID, err)
			continue
		}

		metrics.NotificationsSent.Inc()
		log.Printf("notified student %s: %s for class %s on %s", rec.StudentID, rec.Status, rec.ClassID, rec.AttendedOn)
	}

	log.Println("worker stopped")
}
