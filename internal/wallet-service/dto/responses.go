package dto

import "time"

type WalletResponse struct {
	UserID       string `json:"userId"`
	WalletID     string `json:"walletId"`
	BalanceCents int64  `json:"balance_cents"`
	IsBlocked    bool   `json:"is_blocked"`
}

type LedgerEntryResponse struct {
	ID            int64     `json:"id"`
	OperationType string    `json:"operation_type"`
	AmountCents   int64     `json:"amount_cents"`
	Description   string    `json:"description,omitempty"`
	RelatedBetID  *string   `json:"related_bet_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
