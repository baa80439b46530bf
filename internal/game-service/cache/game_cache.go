package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot é a visão mínima da instância usada pelo fast-path de
// validação do bet-service. A verdade continua no Postgres; o snapshot
// só evita ida ao banco pra rejeitar aposta em jogo já fechado.
type Snapshot struct {
	ID            string           `json:"id"`
	GameType      string           `json:"game_type"`
	Mode          string           `json:"mode"`
	Status        string           `json:"status"`
	MinStakeCents int64            `json:"min_stake_cents"`
	MaxStakeCents int64            `json:"max_stake_cents"`
	Odds          map[string]int64 `json:"odds"`
}

// GameCache mantém o snapshot corrente de cada instância no Redis
type GameCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewGameCache(c *redis.Client, ttl time.Duration) *GameCache {
	return &GameCache{Client: c, TTL: ttl}
}

func key(gameID string) string { return "game:current:" + gameID }

// SetCurrent grava o snapshot da instância com TTL definido.
// Chamado em cada transição de estado (create/close/result).
func (c *GameCache) SetCurrent(ctx context.Context, s Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(s.ID), b, c.TTL).Err()
}
