package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrAllocationExhausted = errors.New("no se pudo asignar un código de barras único")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrStorage             = errors.New("almacenamiento no disponible")
	ErrUnauthorized        = errors.New("no autorizado")
)
