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

	// Errores del motor de inventario (kardex).
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidMovement   = errors.New("movimiento inválido")
	ErrDuplicateEffect   = errors.New("el documento ya tiene un movimiento aplicado para esa causa")
	ErrAlreadyReversed   = errors.New("el movimiento ya fue reversado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)
