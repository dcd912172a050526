package di

import (
	"fmt"
	"staybook/config"
	"staybook/helper"
	"staybook/infras/kafka"
	"staybook/infras/notifier"
	"staybook/infras/otel"
	"staybook/infras/postgres"
	"staybook/infras/redis"
	"staybook/internal/domains/booking/repository"
	"staybook/shared/cache"
	"staybook/shared/lock"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultLockTTLSeconds = 10

// ProvideBookingRepository selects the storage driver. Postgres is migrated first when AUTO_MIGRATE is set.
func ProvideBookingRepository(cfg *config.Config, otel otel.Otel) (repository.Booking, func(), error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		log.Info().Str("driver", config.StorageDriverMemory).Msg("Booking storage initialized")

		return repository.NewMemory(otel), func() {}, nil
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	conn, err := postgres.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	cleanup := func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close postgres connections")
		}
	}

	log.Info().Str("driver", config.StorageDriverPostgres).Msg("Booking storage initialized")

	return repository.NewPostgres(conn, otel), cleanup, nil
}

// ProvideRedisClient returns a nil client when redis is disabled.
func ProvideRedisClient(cfg *config.Config) (*goRedis.Client, func(), error) {
	if !cfg.Cache.Redis.Enable {
		return nil, func() {}, nil
	}

	client, err := redis.New(cfg)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}

	return client, cleanup, nil
}

func ProvideCache(client *goRedis.Client, otel otel.Otel) cache.RedisCache {
	if client == nil {
		return nil
	}

	return cache.NewRedisCache(client, otel)
}

func ProvideLocker(cfg *config.Config, client *goRedis.Client) lock.Locker {
	if client == nil {
		return lock.NewMemory()
	}

	ttl := cfg.Booking.LockTTLSeconds
	if ttl <= 0 {
		ttl = defaultLockTTLSeconds
	}

	return lock.NewRedis(client, time.Duration(ttl)*time.Second)
}

func ProvideNotifier(cfg *config.Config) (notifier.Notifier, func()) {
	if cfg.Notifier.Driver != config.NotifierDriverKafka {
		return notifier.NewLog(), func() {}
	}

	producer := kafka.New(cfg)

	return notifier.NewKafka(producer, cfg.Kafka.Topic.Notifications), func() {
		if err := producer.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka producer")
		}
	}
}
