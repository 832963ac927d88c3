package auth

// Claims representa la sesión admin extraída del token.
type Claims struct {
	AdminID   string
	SessionID string
}
