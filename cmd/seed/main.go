package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/config"
	"github.com/oksasatya/go-user-directory/internal/container"
	pginfra "github.com/oksasatya/go-user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

// seed fills the users table from the random user API.
// Without -force it behaves like the first list request: it populates only
// an empty table.
func main() {
	force := flag.Bool("force", false, "fetch a fresh batch even when users already exist")
	migrateFirst := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PopulateTimeout+30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:            cfg.PostgresDSN(),
		MaxConns:       2,
		MinConns:       1,
		MaxConnLife:    cfg.DBMaxConnLife,
		ConnectRetries: 3,
	}, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if *migrateFirst {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	if cfg.EventsEnabled {
		if pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQUsersQueue); err == nil {
			defer pub.Close()
			container.SetRabbitPub(pub)
		} else {
			logger.WithError(err).Warn("rabbitmq unavailable; users cached event skipped")
		}
	}

	svc := container.UserService()
	if *force {
		res, err := svc.Populate(ctx)
		if err != nil {
			log.Fatalf("populate failed: %v", err)
		}
		helpers.LogInfo(logger, "seed finished", logrus.Fields{"inserted": res.Inserted, "updated": res.Updated})
		fmt.Printf("seeded users: inserted=%d updated=%d\n", res.Inserted, res.Updated)
		return
	}

	if err := svc.PopulateIfEmpty(ctx); err != nil {
		log.Fatalf("populate failed: %v", err)
	}
	n, err := container.UserStore().Count(ctx)
	if err != nil {
		log.Fatalf("count users failed: %v", err)
	}
	fmt.Printf("users in directory: %d\n", n)
}
