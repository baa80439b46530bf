package auth

import "net/http"

// A autenticação acontece fora da plataforma (gateway/camada de auth).
// Os serviços confiam nos headers injetados upstream.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

const (
	RoleAdmin    = "ADMIN"
	RoleSubadmin = "SUBADMIN"
	RolePlayer   = "PLAYER"
)

// Identity é a identidade autenticada da requisição corrente.
type Identity struct {
	UserID string
	Role   string
}

// FromRequest extrai a identidade dos headers. Role vazio vira PLAYER.
func FromRequest(r *http.Request) Identity {
	id := Identity{
		UserID: r.Header.Get(HeaderUserID),
		Role:   r.Header.Get(HeaderRole),
	}
	if id.Role == "" {
		id.Role = RolePlayer
	}
	return id
}

// IsOperator indica se a identidade pode criar/fechar/apurar jogos.
func (i Identity) IsOperator() bool {
	return i.Role == RoleAdmin || i.Role == RoleSubadmin
}
