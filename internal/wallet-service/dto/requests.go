package dto

type DepositRequest struct {
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amount_cents"`
	ExternalRef string `json:"external_ref,omitempty"` // opcional p/ conciliação
}

type AdjustRequest struct {
	UserID     string `json:"userId"`
	DeltaCents int64  `json:"delta_cents"` // positivo credita, negativo debita
	Reason     string `json:"reason"`
}

type BlockRequest struct {
	UserID  string `json:"userId"`
	Blocked bool   `json:"blocked"`
}
