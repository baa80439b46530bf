package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/game-bet-platform/internal/bet-service/gamestate"
	bhttp "github.com/radieske/game-bet-platform/internal/bet-service/http"
	kpub "github.com/radieske/game-bet-platform/internal/bet-service/producer"
	"github.com/radieske/game-bet-platform/internal/bet-service/repo"
	"github.com/radieske/game-bet-platform/internal/shared/cache"
	"github.com/radieske/game-bet-platform/internal/shared/config"
	"github.com/radieske/game-bet-platform/internal/shared/db"
	"github.com/radieske/game-bet-platform/internal/shared/kafka"
	"github.com/radieske/game-bet-platform/internal/shared/logger"
	"github.com/radieske/game-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres + migrations
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(pg); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// Redis (fast-path de status de jogo)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writer (topic bet_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	state := gamestate.NewValidator(rdb)
	publ := kpub.NewKafkaPublisher(writer)

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	// HTTP público
	api := bhttp.NewServer(log, repository, state, publ)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("bet-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
