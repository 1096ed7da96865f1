package publishers

import "time"

// Publisher es el perfil de un usuario que publica perros.
// ID es el subject del proveedor de identidad.
type Publisher struct {
	ID       string
	Email    string
	Name     string
	Phone    string
	Province string
	Canton   string
	Address  string

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultName se usa cuando el perfil se crea implícitamente.
const DefaultName = "Usuario"
