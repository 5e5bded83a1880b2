// Package store is the relational store the engines work against. Every
// operation runs inside a transaction obtained from DB.WithTx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gl-setup/internal/verification"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrConcurrentModification = errors.New("row was modified by another transaction")
)

type DB struct {
	gorm      *gorm.DB
	isolation sql.IsolationLevel
	log       *zap.Logger
}

func New(db *gorm.DB, isolation sql.IsolationLevel, log *zap.Logger) *DB {
	if log == nil {
		log = zap.NewNop()
	}
	return &DB{gorm: db, isolation: isolation, log: log}
}

func (d *DB) Gorm() *gorm.DB { return d.gorm }

// WithTx runs fn in a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; fn's error is returned unchanged.
func (d *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	var opts []*sql.TxOptions
	if d.isolation != sql.LevelDefault {
		opts = append(opts, &sql.TxOptions{Isolation: d.isolation})
	}
	err := d.gorm.WithContext(ctx).Transaction(func(g *gorm.DB) error {
		return fn(&Tx{g: g})
	}, opts...)
	if err != nil {
		d.log.Debug("transaction rolled back", zap.Error(err))
	}
	return err
}

// NewModificationID returns a fresh optimistic concurrency token.
func NewModificationID() string {
	return uuid.NewString()
}

// IsRetryable reports whether err is a transient conflict with another
// transaction, so that running the same operation again may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConcurrentModification) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// RetryResult describes a retryable failure of operation. A stale
// modification_id is told apart from a database serialization failure.
func RetryResult(operation string, err error) verification.Result {
	res := verification.Retry(operation, err)
	if errors.Is(err, ErrConcurrentModification) {
		res.Code = verification.CodeConcurrentModification
	}
	return res
}

// Tx is a handle on an open transaction.
type Tx struct {
	g *gorm.DB
}

// Gorm exposes the underlying transaction for queries the helpers below do
// not cover.
func (t *Tx) Gorm() *gorm.DB { return t.g }

func eq(column string, value any) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func where(g *gorm.DB, conds map[string]any) *gorm.DB {
	if len(conds) == 0 {
		return g
	}
	return g.Where(conds)
}

// LoadByKey loads the single row identified by key into dest.
func (t *Tx) LoadByKey(dest any, key map[string]any) error {
	err := t.g.Where(key).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// LoadByForeignKey loads every row whose column equals value, restricted by
// scope, into the slice dest.
func (t *Tx) LoadByForeignKey(dest any, column string, value any, scope map[string]any) error {
	return where(t.g, scope).Where(eq(column, value)).Find(dest).Error
}

// LoadUsingTemplate loads every row matching the non-zero fields of template.
func (t *Tx) LoadUsingTemplate(dest any, template any, order ...string) error {
	q := t.g.Where(template)
	for _, o := range order {
		q = q.Order(o)
	}
	return q.Find(dest).Error
}

func (t *Tx) Insert(row any) error {
	return t.g.Create(row).Error
}

// UpdateVersioned writes values to the row identified by key, provided its
// modification id is still modID. It returns the row's new modification id.
func (t *Tx) UpdateVersioned(model any, key map[string]any, modID string, values map[string]any) (string, error) {
	next := NewModificationID()
	vals := make(map[string]any, len(values)+1)
	for k, v := range values {
		vals[k] = v
	}
	vals["modification_id"] = next

	res := t.g.Model(model).Where(key).Where(eq("modification_id", modID)).Updates(vals)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("%w: %v", ErrConcurrentModification, key)
	}
	return next, nil
}

func (t *Tx) Delete(model any, conds map[string]any) (int64, error) {
	if len(conds) == 0 {
		return 0, gorm.ErrMissingWhereClause
	}
	res := t.g.Where(conds).Delete(model)
	return res.RowsAffected, res.Error
}

func (t *Tx) Count(model any, conds map[string]any) (int64, error) {
	var n int64
	err := where(t.g.Model(model), conds).Count(&n).Error
	return n, err
}

// UpdateColumn sets column to `to` on every row of table where it equals
// `from`, restricted by scope.
func (t *Tx) UpdateColumn(table, column, from, to string, scope map[string]any) (int64, error) {
	res := where(t.g.Table(table), scope).Where(eq(column, from)).Update(column, to)
	return res.RowsAffected, res.Error
}

// CloneRows inserts a copy of every row of table where column equals `from`,
// with column set to `to`. The originals are left in place.
func (t *Tx) CloneRows(table, column, from, to string, scope map[string]any) (int64, error) {
	var rows []map[string]any
	if err := where(t.g.Table(table), scope).Where(eq(column, from)).Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, r := range rows {
		r[column] = to
	}
	res := t.g.Table(table).Create(rows)
	return res.RowsAffected, res.Error
}

// DeleteRows removes every row of table where column equals value.
func (t *Tx) DeleteRows(table, column, value string, scope map[string]any) (int64, error) {
	res := where(t.g.Table(table), scope).Where(eq(column, value)).Delete(nil)
	return res.RowsAffected, res.Error
}
