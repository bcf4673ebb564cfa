package dto

import "time"

// PageResponse metadatos de página en listados. Total se informa solo cuando el
// repositorio lo calcula.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (INSUFFICIENT_STOCK, NOT_FOUND...);
// Message es legible y puede cambiar.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse estado del proceso para balanceadores y orquestadores.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
