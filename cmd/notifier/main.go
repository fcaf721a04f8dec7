// Command notifier subscribes to the telemetry fan-out channel and logs
// each event, adapted from the teacher's backend-go-notification-service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"

	"finops-llm-router/internal/telemetry"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisAddr := getenv("REDIS_ADDR", "redis:6379")
	channel := getenv("TELEMETRY_CHANNEL", telemetry.DefaultChannel)

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() { _ = rdb.Close() }()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", redisAddr, err)
	}

	sub := rdb.Subscribe(ctx, channel)
	defer func() { _ = sub.Close() }()

	log.Printf("notifier subscribed to redis channel=%s addr=%s", channel, redisAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	msgCh := sub.Channel()
	for {
		select {
		case <-quit:
			log.Println("notifier shutting down")
			return
		case msg, ok := <-msgCh:
			if !ok {
				log.Println("redis subscription channel closed")
				return
			}
			// Payload is JSON published by the orchestrator's telemetry collector.
			log.Printf("telemetry: %s", msg.Payload)
		}
	}
}
