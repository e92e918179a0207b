package repository

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// oracleUniqueViolation is the error code Oracle raises for a unique or
// primary key constraint. Both go-ora and godror embed it in the message.
const oracleUniqueViolation = "ORA-00001"

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), oracleUniqueViolation)
}

func boolToNumber(b bool) int {
	if b {
		return 1
	}
	return 0
}
