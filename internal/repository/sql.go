package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"appraisells-auction/internal/auctionerrors"
	"appraisells-auction/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// dialect captures the few statements that differ between SQLite and MySQL.
type dialect struct {
	driver       string
	goose        goose.Dialect
	migrationDir string
	// insertIgnore starts an INSERT that keeps the existing row on a unique
	// key conflict and reports zero affected rows.
	insertIgnore string
	touchProfile string
}

var (
	sqliteDialect = dialect{
		driver:       "sqlite",
		goose:        goose.DialectSQLite3,
		migrationDir: "migrations/sqlite",
		insertIgnore: "INSERT OR IGNORE",
		touchProfile: `
			INSERT INTO user_profiles (username, user_uid, wallet_address, last_seen)
			VALUES (?, ?, NULLIF(?, ''), ?)
			ON CONFLICT(username) DO UPDATE SET
				user_uid = CASE WHEN excluded.user_uid <> '' THEN excluded.user_uid ELSE user_profiles.user_uid END,
				wallet_address = COALESCE(excluded.wallet_address, user_profiles.wallet_address),
				last_seen = excluded.last_seen`,
	}
	mysqlDialect = dialect{
		driver:       "mysql",
		goose:        goose.DialectMySQL,
		migrationDir: "migrations/mysql",
		insertIgnore: "INSERT IGNORE",
		touchProfile: `
			INSERT INTO user_profiles (username, user_uid, wallet_address, last_seen)
			VALUES (?, ?, NULLIF(?, ''), ?)
			ON DUPLICATE KEY UPDATE
				user_uid = IF(VALUES(user_uid) <> '', VALUES(user_uid), user_uid),
				wallet_address = COALESCE(VALUES(wallet_address), wallet_address),
				last_seen = VALUES(last_seen)`,
	}
)

// SQLOptions tunes the connection pool of a SQL store.
type SQLOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLRepo implements Store on top of database/sql for SQLite and MySQL.
// The handle is passed explicitly to every service; connections are taken
// per statement or per transaction and always released.
type SQLRepo struct {
	db      *sql.DB
	dialect dialect
}

var _ Store = (*SQLRepo)(nil)

// OpenSQL opens the database, applies migrations and returns the store.
// driver is "sqlite" or "mysql".
func OpenSQL(ctx context.Context, driver, dsn string, opts SQLOptions) (*SQLRepo, error) {
	var d dialect
	switch driver {
	case "sqlite":
		d = sqliteDialect
	case "mysql":
		d = mysqlDialect
	default:
		return nil, fmt.Errorf("open store: unknown driver %q", driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if d.driver == "sqlite" {
		// SQLite only supports 1 writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	repo := &SQLRepo{db: db, dialect: d}
	if err := repo.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	utils.Info("SQL store initialized", map[string]any{"driver": driver})
	return repo, nil
}

func (r *SQLRepo) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, r.dialect.migrationDir)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", r.dialect.driver, err)
	}

	provider, err := goose.NewProvider(r.dialect.goose, r.db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, res := range results {
		utils.Info("migration applied", map[string]any{
			"source":   res.Source.Path,
			"duration": res.Duration.String(),
		})
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// Close closes the database handle.
func (r *SQLRepo) Close() error {
	return r.db.Close()
}

// querier is the common interface of *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlTxKey struct{}

// conn returns the transaction carried by ctx, or the pool.
func (r *SQLRepo) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// RunInTx executes fn within a database transaction.
// On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics.
func (r *SQLRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, sqlTxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// storageErr maps driver errors onto the domain taxonomy.
// Context errors pass through so callers can tell cancellation apart.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, auctionerrors.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, auctionerrors.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, auctionerrors.ErrStorageUnavailable, err)
	}
}

// isUniqueViolation reports a unique or primary key violation from either driver.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

// selectRows runs a squirrel query on the connection carried by ctx.
func (r *SQLRepo) selectRows(ctx context.Context, b sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.conn(ctx).QueryContext(ctx, query, args...)
}

// nullTime scans DATETIME columns from both drivers, including the text
// form SQLite hands back for expressions.
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (n *nullTime) Scan(src any) error {
	n.Time, n.Valid = time.Time{}, false
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("scan time: unsupported type %T", src)
	}
}

func (n *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("scan time: unrecognized format %q", s)
}

// ptr returns a pointer to the scanned time, or nil when NULL.
func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
