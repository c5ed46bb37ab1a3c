package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isFKViolation: referencia a fila inexistente, o borrado de fila referenciada (RESTRICT).
func isFKViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// isCheckViolation: en products solo existe CHECK (quantity >= 0).
func isCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }
