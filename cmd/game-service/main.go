package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	gcache "github.com/radieske/game-bet-platform/internal/game-service/cache"
	ghttp "github.com/radieske/game-bet-platform/internal/game-service/http"
	"github.com/radieske/game-bet-platform/internal/game-service/producer"
	"github.com/radieske/game-bet-platform/internal/game-service/repo"
	"github.com/radieske/game-bet-platform/internal/game-service/ws"
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

	// Redis (snapshot de jogos + pub/sub do feed)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writers (game_resulted, bet_settled)
	resultedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGameResulted)
	defer resultedWriter.Close()
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	// deps
	repository := repo.NewPostgres(pg)
	snapCache := gcache.NewGameCache(rdb, 10*time.Minute)
	publ := producer.NewKafkaPublisher(resultedWriter, settledWriter)

	// WebSocket hub do feed de liquidação, alimentado pelo canal Redis
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), rdb, cfg.RedisResultsChan, hub)

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	// HTTP público
	api := ghttp.NewServer(log, repository, publ, snapCache, hub)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("game-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
