package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/game-bet-platform/internal/shared/cache"
	"github.com/radieske/game-bet-platform/internal/shared/config"
	"github.com/radieske/game-bet-platform/internal/shared/kafka"
	"github.com/radieske/game-bet-platform/internal/shared/logger"
	"github.com/radieske/game-bet-platform/internal/shared/metrics"
	ev "github.com/radieske/game-bet-platform/pkg/contracts/events"
)

// TTL do resultado mais recente de cada aposta no Redis
const resultTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Redis: cache de resultados + canal pub/sub do feed WebSocket
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka consumer: consome eventos bet_settled publicados pelo game-service
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "settlement-feed")
	defer reader.Close()

	var dlqWriter *kafka.Writer
	if cfg.TopicBetSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettledDLQ)
		defer dlqWriter.Close()
	}

	// Métricas Prometheus e healthcheck
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	log.Info("settlement-feed-worker started",
		zap.String("consume", cfg.TopicBetSettled),
		zap.String("publish", cfg.RedisResultsChan),
	)

	ctx := context.Background()

	// Loop principal: consome eventos, cacheia e repassa pro canal do feed
	for {
		key, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled ev.BetSettled
		if jerr := json.Unmarshal(value, &settled); jerr != nil {
			log.Error("unmarshal bet_settled", zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(key), value)
			}
			continue
		}

		if err := processOne(ctx, rdb, cfg.RedisResultsChan, &settled); err != nil {
			log.Error("process settlement", zap.String("betId", settled.BetID), zap.Error(err))
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processOne cacheia o resultado da aposta e publica no canal Pub/Sub
// que alimenta o hub WebSocket do game-service
func processOne(ctx context.Context, rdb *redis.Client, channel string, settled *ev.BetSettled) error {
	b, err := json.Marshal(settled)
	if err != nil {
		return err
	}

	if err := rdb.Set(ctx, "settlement:latest:"+settled.BetID, b, resultTTL).Err(); err != nil {
		return err
	}

	// Envelope esperado pelo hub: gameId + payload
	upd, err := json.Marshal(map[string]any{
		"gameId":  settled.GameID,
		"payload": settled,
	})
	if err != nil {
		return err
	}

	return rdb.Publish(ctx, channel, upd).Err()
}
