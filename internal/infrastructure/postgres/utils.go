package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es lo común a *pgxpool.Pool y pgx.Tx; los repositorios lo reciben para
// funcionar igual dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SQLSTATE usados por los repositorios.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// writeError traduce un fallo de escritura: unique y foreignKey se devuelven tal cual si
// Postgres reporta esa violación (nil = no aplica); el resto se envuelve con op.
func writeError(err error, op string, unique, foreignKey error) error {
	switch sqlState(err) {
	case codeUniqueViolation:
		if unique != nil {
			return unique
		}
	case codeForeignKeyViolation:
		if foreignKey != nil {
			return foreignKey
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern escapa comodines de LIKE y envuelve el término para búsqueda por subcadena.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
