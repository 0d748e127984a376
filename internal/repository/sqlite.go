package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada/internal/model"
)

//go:embed database/schema.sql
var schemaFS embed.FS

// SQLite stores todos in a single SQLite file.
type SQLite struct {
	db     *sql.DB
	dbPath string
}

// OpenSQLite opens (or creates) the database at dbPath and migrates it.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: ":memory:" databases are per-connection, and SQLite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	r := &SQLite{db: db, dbPath: dbPath}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLite) migrate() error {
	schema, err := schemaFS.ReadFile("database/schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := r.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("migrate %s: %w", r.dbPath, err)
	}
	return nil
}

func (r *SQLite) Create(ctx context.Context, text string) (model.Todo, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (text, created_at, updated_at) VALUES (?, ?, ?)`,
		text, now, now)
	if err != nil {
		return model.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Todo{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Todo{ID: id, Text: text, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *SQLite) Get(ctx context.Context, id int64) (model.Todo, error) {
	var t model.Todo
	err := r.db.QueryRowContext(ctx,
		`SELECT id, text, created_at, updated_at FROM todos WHERE id = ?`, id).
		Scan(&t.ID, &t.Text, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, notFound(id)
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("select todo: %w", err)
	}
	return t, nil
}

func (r *SQLite) List(ctx context.Context) ([]model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, created_at, updated_at FROM todos ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()

	todos := make([]model.Todo, 0)
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *SQLite) Update(ctx context.Context, id int64, text string) (model.Todo, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET text = ?, updated_at = ? WHERE id = ?`,
		text, time.Now().UTC(), id)
	if err != nil {
		return model.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Todo{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return model.Todo{}, notFound(id)
	}
	return r.Get(ctx, id)
}

func (r *SQLite) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (r *SQLite) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("truncate todos: %w", err)
	}
	return nil
}

func (r *SQLite) Close() error { return r.db.Close() }
