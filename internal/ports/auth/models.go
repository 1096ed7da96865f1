package auth

import "time"

// Claims representa la información extraída del token.
// ExpiresAt es el exp del token; cero si no se conoce.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Expired indica si el token ya venció en now. Sin exp conocido nunca vence.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
