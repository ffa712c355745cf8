package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database file at path. The pool is limited to
// one connection so every statement, the counter update included, runs in
// a single critical section.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations(cred *Credentials) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	query := `UPDATE order_counters SET value = value + 1 WHERE name = 'orders' RETURNING value`

	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("allocate order number: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args, err := orderArgs(order)
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isSQLiteConstraint(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetOrderByNumber(ctx context.Context, number int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by number: %w", err)
	}
	return order, nil
}

func (r *SQLiteRepository) ListOrders(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY number DESC` + limitClause(limit)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// isSQLiteConstraint reports a constraint violation; the low byte of an
// extended result code is its primary code.
func isSQLiteConstraint(err error) bool {
	var sqliteErr *moderncsqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
}
