package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/game-bet-platform/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de apuração do game-service
type KafkaPublisher struct {
	Resulted *kafka.Writer // tópico game_resulted
	Settled  *kafka.Writer // tópico bet_settled
}

func NewKafkaPublisher(resulted, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Resulted: resulted, Settled: settled}
}

func (p *KafkaPublisher) PublishGameResulted(ctx context.Context, e events.GameResulted) error {
	e.Ts = time.Now()
	b, _ := json.Marshal(e)
	return p.Resulted.WriteMessages(ctx, kafka.Message{Key: []byte(e.GameID), Value: b})
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	e.Ts = time.Now()
	b, _ := json.Marshal(e)
	return p.Settled.WriteMessages(ctx, kafka.Message{Key: []byte(e.GameID), Value: b})
}
