package entity

import "time"

// Supplier proveedor de materias primas.
type Supplier struct {
	ID            string
	Name          string
	Code          string // único
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Active        bool
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
