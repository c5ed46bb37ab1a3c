package dto

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas de calendario (sin hora) en la API.
const DateLayout = "2006-01-02"

// Límites de paginación de ventas.
const (
	DefaultSalesLimit = 100
	MaxSalesLimit     = 1000
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Money monto con dos decimales fijos al serializar ("12.50").
type Money struct {
	decimal.Decimal
}

// NewMoney envuelve un decimal.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// Optional campo de PATCH con presencia explícita.
// Set indica que la clave vino en el cuerpo; Null que vino como null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some construye un Optional presente.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// Ptr devuelve nil si no vino o vino null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}
