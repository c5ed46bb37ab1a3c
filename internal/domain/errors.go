package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrAlreadyExists     = errors.New("el recurso ya existe")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError error de entrada asociado a un campo.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingProductsError lista todos los productos inexistentes de una operación.
type MissingProductsError struct {
	IDs []int64 // ascendente
}

func (e *MissingProductsError) Error() string {
	return "producto(s) no encontrado(s): " + joinIDs(e.IDs)
}

func (e *MissingProductsError) Unwrap() error { return ErrNotFound }

// StockShortage faltante de un producto dentro de una venta.
type StockShortage struct {
	ProductID int64
	Available int64
	Requested int64
}

// InsufficientStockError agrupa todos los faltantes detectados en una venta.
type InsufficientStockError struct {
	Shortages []StockShortage // ordenados por ProductID
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("producto %d (disponible: %d, requerido: %d)", s.ProductID, s.Available, s.Requested))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
