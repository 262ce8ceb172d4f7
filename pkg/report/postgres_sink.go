package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CopyAPI is the subset of a pgx pool the sink uses.
type CopyAPI interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresSink bulk-loads tables with COPY. Every row is stamped with the
// sweep id so several sweeps can share one table.
type PostgresSink struct {
	db      CopyAPI
	sweepID uuid.UUID
	close   func()
}

// NewPostgresSink connects to databaseURL and verifies the connection.
func NewPostgresSink(ctx context.Context, databaseURL string, sweepID uuid.UUID) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PostgresSink{db: pool, sweepID: sweepID, close: pool.Close}, nil
}

// NewPostgresSinkWith uses an existing connection; Close does not close it.
func NewPostgresSinkWith(db CopyAPI, sweepID uuid.UUID) *PostgresSink {
	return &PostgresSink{db: db, sweepID: sweepID}
}

// CreateTableSQL returns the DDL for the table of t.
func (s *PostgresSink) CreateTableSQL(t *Table) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(pgx.Identifier{t.SQLName()}.Sanitize())
	b.WriteString(" (sweep_id uuid NOT NULL")
	for _, c := range t.Columns {
		b.WriteString(", ")
		b.WriteString(pgx.Identifier{c.Name}.Sanitize())
		b.WriteByte(' ')
		b.WriteString(c.Kind.SQLType())
	}
	b.WriteString(")")
	return b.String()
}

// Write creates the table when missing and copies every row into it.
func (s *PostgresSink) Write(ctx context.Context, t *Table) error {
	if _, err := s.db.Exec(ctx, s.CreateTableSQL(t)); err != nil {
		return fmt.Errorf("creating table %s: %w", t.SQLName(), err)
	}

	columns := append([]string{"sweep_id"}, t.ColumnNames()...)
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]any{s.sweepID}, row...)
	}

	n, err := s.db.CopyFrom(ctx, pgx.Identifier{t.SQLName()}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copying into %s: %w", t.SQLName(), err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("copying into %s: wrote %d of %d rows", t.SQLName(), n, len(rows))
	}
	return nil
}

// Ping checks that the database is reachable. Connections without a Ping
// method are treated as reachable.
func (s *PostgresSink) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the pool when the sink created it.
func (s *PostgresSink) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
