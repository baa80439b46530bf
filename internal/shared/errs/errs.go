package errs

import "errors"

// Erros de domínio compartilhados entre os serviços.
// Todos representam condições locais e recuperáveis: nenhuma mutação
// acontece quando um deles é retornado (fail closed antes de escrever).
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrAlreadySettled      = errors.New("already settled")
	ErrGameNotOpen         = errors.New("game not open")
	ErrInvalidPrediction   = errors.New("invalid prediction")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountBlocked      = errors.New("account blocked")
	ErrValidation          = errors.New("validation error")
)

// HTTPStatus mapeia um erro de domínio para o status HTTP da resposta.
// Erros desconhecidos viram 500 (o chamador decide como logar).
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPrediction):
		return 400
	case errors.Is(err, ErrAccountBlocked):
		return 403
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadySettled),
		errors.Is(err, ErrGameNotOpen),
		errors.Is(err, ErrInsufficientBalance):
		return 409
	default:
		return 500
	}
}
