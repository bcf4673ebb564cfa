package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isNoRows indica si la consulta no devolvió filas.
func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

// nullString convierte "" en NULL para columnas FK opcionales.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fromNull convierte un *string escaneado de una columna nullable.
func fromNull(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// pageArgs normaliza limit/offset; limit ≤ 0 se traduce a NULL (sin límite).
func pageArgs(limit, offset int) (any, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset
	}
	return limit, offset
}

// prefixed antepone el alias de tabla a cada columna de una lista separada por comas.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}
