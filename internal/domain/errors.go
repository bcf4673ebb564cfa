package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Inventario
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInsufficientCapacity = errors.New("capacidad insuficiente en la ubicación destino")
	ErrStockRecordNotFound  = errors.New("no existe registro de stock para material, ubicación y lote")

	// Producción / pedidos
	ErrInsufficientMaterials = errors.New("materiales insuficientes para iniciar producción")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")
)
