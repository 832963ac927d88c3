package auth

import "context"

// SessionVerifier verifica un token de sesión admin y devuelve claims o error.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
