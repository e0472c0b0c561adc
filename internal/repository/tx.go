package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrTxConflict wraps lock-wait-timeout and deadlock failures. Callers may
// safely retry the whole unit of work; this package never retries on its
// own.
var ErrTxConflict = errors.New("db transaction conflict")

// ErrTxFailed wraps any other transport-level transaction failure.
var ErrTxFailed = errors.New("db transaction failed")

// MySQL server error numbers for lock contention.
const (
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
)

// RunInTx executes fn inside a database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Errors returned
// by fn pass through unchanged so domain errors keep their identity;
// driver-level failures from begin/commit and lock contention surfaced by
// fn are classified as ErrTxConflict or ErrTxFailed.
//
// RunInTx knows nothing about bookings: it is the generic atomic
// unit-of-work primitive shared by every checkout variant.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		if conflictErr := classifyMySQL(err); conflictErr != nil {
			return conflictErr
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		if conflictErr := classifyMySQL(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("%w: commit: %v", ErrTxFailed, err)
	}
	committed = true
	return nil
}

// classifyMySQL returns a wrapped ErrTxConflict when err is a MySQL lock
// contention error, and nil for everything else (including non-driver
// errors, which the caller forwards untouched).
func classifyMySQL(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrLockDeadlock, mysqlErrLockWaitTimeout:
			return fmt.Errorf("%w: %v", ErrTxConflict, err)
		}
	}
	return nil
}
