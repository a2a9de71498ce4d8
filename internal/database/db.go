package database

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/justsurfingit/Niche-Job-Board/internal/config"
	"github.com/justsurfingit/Niche-Job-Board/internal/xlog"
)

// Querier is the surface the model layer sees: parameterized SQL in,
// generic rows out. Both *sql.DB and *sql.Tx satisfy the underlying
// execer, so the same model code runs inside and outside transactions.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

type execer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

// Connect opens postgres through gorm (migrations only), then bounds
// the underlying pool. All application queries run as raw SQL on the
// *sql.DB, not through the gorm query builder.
func Connect(cfg config.Database) (*DB, error) {
	log := xlog.S()

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	log.Infof("postgres connected %s:%d/%s", cfg.Host, cfg.Port, cfg.Name)

	log.Info("running migrations")
	if err := gdb.AutoMigrate(&User{}, &Job{}, &Application{}); err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &DB{gorm: gdb, sql: sqlDB}, nil
}

// Querier returns the pool-backed query surface.
func (d *DB) Querier() Querier {
	return &sqlQuerier{db: d.sql}
}

// WithTx runs fn inside a transaction, rolling back unless fn returns
// nil.
func (d *DB) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqlQuerier{db: tx}); err != nil {
		return err
	}

	committed = true
	return tx.Commit()
}

func (d *DB) Close() error {
	return d.sql.Close()
}

type sqlQuerier struct {
	db execer
}

func (q *sqlQuerier) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func (q *sqlQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			rec[c] = normalize(vals[i])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// The driver hands text columns back as []byte; the model layer wants
// strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
