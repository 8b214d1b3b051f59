package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/capture-service/internal/adapter/memory"
	"github.com/user/capture-service/internal/adapter/postgres"
	redis_adapter "github.com/user/capture-service/internal/adapter/redis"
	"github.com/user/capture-service/internal/repository"
)

// stores bundles the bookkeeping repositories. Redis and PostgreSQL are used
// when configured; otherwise everything lives in memory for the run.
type stores struct {
	statuses repository.StatusRepository
	results  repository.CaptureResultRepository
	queue    repository.QueueRepository
	closers  []func()
}

func openStores(ctx context.Context) (*stores, error) {
	st := &stores{
		statuses: memory.NewStatusRepo(),
		results:  memory.NewCaptureResultRepo(),
		queue:    memory.NewQueueRepo(),
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("unable to connect to Redis: %w", err)
		}
		st.closers = append(st.closers, func() { rdb.Close() })
		st.statuses = redis_adapter.NewStatusRepo(rdb)
		st.queue = redis_adapter.NewQueueRepo(rdb)
		log.Info("Redis connection established", zap.String("addr", cfg.RedisAddr))
	}

	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		st.closers = append(st.closers, dbpool.Close)

		repo := postgres.NewCaptureResultRepo(dbpool)
		if err := repo.EnsureSchema(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("unable to prepare capture_results table: %w", err)
		}
		st.results = repo
		log.Info("PostgreSQL connection pool established")
	}

	return st, nil
}

// Close releases connections in reverse order of opening.
func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
