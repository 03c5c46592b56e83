// Package dbx holds the small database plumbing shared by the SQLite and
// Postgres repositories.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connector hands out an initialised database. The local store opens and
// migrates vault.db on the first call; later calls share that handle.
type Connector interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// Static is a Connector over a database that is already open.
type Static struct {
	Conn *sql.DB
}

func (s Static) DB(context.Context) (*sql.DB, error) {
	if s.Conn == nil {
		return nil, errors.New("dbx: no database")
	}
	return s.Conn, nil
}

// InTx resolves a database from conn and runs fn inside one transaction.
// fn's error, a failed commit, or a panic roll the transaction back; a panic
// is re-raised afterwards. A rollback failure is joined to fn's error.
func InTx(ctx context.Context, conn Connector, fn func(ctx context.Context, tx DBTX) error) (err error) {
	db, err := conn.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
