package domain

import "time"

// Session es el contexto explicito que acompana cada llamada a un colaborador.
// Se crea en el login y se borra en logout o cuando el upstream responde 401.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired indica si la sesion vencio respecto de now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
