package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/config"
	userapp "github.com/oksasatya/go-user-directory/internal/application"
	esinfra "github.com/oksasatya/go-user-directory/internal/infrastructure/elasticsearch"
	pginfra "github.com/oksasatya/go-user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

// index_worker keeps the Elasticsearch user index in step with Postgres.
// It syncs once at startup and again on every UsersCached event. Documents
// are read back from the store so they carry the stored created_at.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-index-worker", cfg.Env, cfg.LogLevel)

	if !cfg.EventsEnabled {
		logger.Info("EVENTS_ENABLED=false; index worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQUsersQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:            cfg.PostgresDSN(),
		MaxConns:       2,
		MinConns:       1,
		MaxConnLife:    cfg.DBMaxConnLife,
		ConnectRetries: 5,
	}, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	es, err := helpers.NewESClient(helpers.ESOptions{
		Addrs:      cfg.ESAddrs(),
		Username:   cfg.ElasticsearchUser,
		Password:   cfg.ElasticsearchPass,
		MaxRetries: 3,
	})
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	index := esinfra.NewUserIndex(es, cfg.ESUsersIndex, cfg.ESSearchSize, logger)
	if err := index.EnsureIndex(ctx); err != nil {
		log.Fatalf("ensure index: %v", err)
	}
	syncer := userapp.NewIndexSync(pginfra.NewUserRepository(pool), index, logger)

	if _, err := syncOnce(ctx, syncer); err != nil {
		helpers.LogError(logger, "initial index sync failed", err, nil)
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQUsersQueue, 4)
	if err != nil {
		log.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range consumer.Deliveries {
			var evt userapp.UsersCached
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				helpers.LogError(logger, "malformed users cached event dropped", err, nil)
				_ = msg.Nack(false, false)
				continue
			}
			n, err := syncOnce(ctx, syncer)
			if err != nil {
				helpers.LogError(logger, "index sync failed", err, logrus.Fields{"requeue": true})
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
			helpers.LogInfo(logger, "users indexed", logrus.Fields{"users": n, "cached": len(evt.Users)})
		}
	}()

	logger.WithField("queue", cfg.RabbitMQUsersQueue).Info("index worker listening")
	select {
	case <-ctx.Done():
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func syncOnce(ctx context.Context, syncer *userapp.IndexSync) (int, error) {
	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return syncer.Sync(c)
}
