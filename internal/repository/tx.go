package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/tour-reservation/internal/booking"
)

// MySQL server error codes surfaced on lock contention.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// TxManager runs functions inside bounded transactions.  Every
// transaction gets a deadline so a stalled writer cannot hold a
// schedule row lock indefinitely, and lock-wait timeouts and deadlocks
// are retried a fixed number of times before surfacing.
type TxManager struct {
	db      *sql.DB
	timeout time.Duration
	retries int
}

// NewTxManager returns a TxManager with a 5 second per-transaction
// deadline and two retries on lock contention.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db, timeout: 5 * time.Second, retries: 2}
}

// InTx executes fn inside a transaction.  The transaction commits when
// fn returns nil and rolls back otherwise.  Contended attempts are
// retried; exhausted retries and begin/commit failures come back as a
// *booking.InfrastructureError, while fn's own errors are returned
// as-is so callers can match the booking error taxonomy.
func (m *TxManager) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var last error
	for attempt := 0; attempt <= m.retries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		last = err
	}
	return &booking.InfrastructureError{Op: "transaction retries exhausted", Err: last}
}

func (m *TxManager) runOnce(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return &booking.InfrastructureError{Op: "begin transaction", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &booking.InfrastructureError{Op: "commit transaction", Err: err}
	}
	committed = true
	return nil
}

// retryable reports whether the error is lock contention worth another
// attempt.
func retryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock
	}
	return false
}
