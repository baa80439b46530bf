package gamestate

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Validator lê o snapshot de jogo mantido pelo game-service no Redis.
// Fast-path apenas: rejeita cedo aposta em jogo já fechado sem abrir
// transação; a checagem autoritativa acontece sob lock no Place.
type Validator struct {
	Rdb *redis.Client
}

func NewValidator(r *redis.Client) *Validator { return &Validator{Rdb: r} }

type snapshot struct {
	Status string `json:"status"`
}

// Espera chave "game:current:{gameID}" => snapshot JSON com o status
func (v *Validator) CurrentStatus(ctx context.Context, gameID string) (string, error) {
	b, err := v.Rdb.Get(ctx, "game:current:"+gameID).Bytes()
	if err != nil {
		return "", err
	}
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return "", err
	}
	return s.Status, nil
}
