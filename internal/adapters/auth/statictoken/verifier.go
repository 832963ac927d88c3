package statictoken

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"cattery-site/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Verifier implementa auth.SessionVerifier contra un único token admin
// configurado por env. Alcanza para un criadero con un solo admin; si algún
// día hay varios, acá entraría un verifier contra la tabla de sesiones.
type Verifier struct {
	token string
}

func NewVerifier(token string) (*Verifier, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("statictoken: admin token required")
	}
	return &Verifier{token: token}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil {
		return auth.Claims{}, ErrTokenInvalid
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return auth.Claims{}, ErrTokenInvalid
	}

	return auth.Claims{AdminID: "admin"}, nil
}
