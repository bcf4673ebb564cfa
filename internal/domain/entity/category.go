package entity

import "time"

// Category categoría de productos terminados (jerárquica opcional).
type Category struct {
	ID          string
	ParentID    string // vacío si es raíz
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
