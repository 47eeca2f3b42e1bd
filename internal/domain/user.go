package domain

import "time"

// User is the account as reported by the auth API. Accounts are owned there,
// this service only keeps the id in the session.
type User struct {
	ID        int        `json:"id"`
	FirstName string     `json:"nombre"`
	LastName  string     `json:"apellido"`
	Email     string     `json:"email"`
	Validated *time.Time `json:"validado,omitempty"`
	BirthDate *time.Time `json:"fecha_nacimiento,omitempty"`
	Roles     []Role     `json:"roles"`
}

type Role struct {
	ID       int    `json:"id"`
	Name     string `json:"nombre"`
	BodegaID *int   `json:"bodegaId,omitempty"`
}
