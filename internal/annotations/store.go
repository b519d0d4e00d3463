// Package annotations keeps user notes about a board next to the board
// file: free-form annotations in an SQLite database and part, pin and net
// details in a YAML sidecar.
package annotations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an annotation id does not exist.
var ErrNotFound = errors.New("annotation not found")

// Annotation is a note pinned to a board position.
type Annotation struct {
	ID   int64
	Side int
	X, Y int
	Net  string
	Part string
	Pin  string
	Note string
}

// Store is an open annotation database.
type Store struct {
	db   *sql.DB
	path string
}

// DBPath returns the database path used for a board file: the last dot of
// the file name becomes an underscore and ".sqlite3" is appended.
func DBPath(boardPath string) string {
	dir, base := filepath.Split(boardPath)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i] + "_" + base[i+1:]
	}
	return dir + base + ".sqlite3"
}

// Open opens or creates the annotation database of a board file.
func Open(ctx context.Context, boardPath string) (*Store, error) {
	return OpenPath(ctx, DBPath(boardPath))
}

// OpenPath opens or creates an annotation database at path.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS annotations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visible INTEGER,
		pin TEXT,
		part TEXT,
		net TEXT,
		posx INTEGER,
		posy INTEGER,
		side INTEGER,
		note TEXT
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// List returns the visible annotations in creation order.
func (s *Store) List(ctx context.Context) ([]Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, side, posx, posy, net, part, pin, note
		FROM annotations WHERE visible = 1 ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var out []Annotation
	for rows.Next() {
		var (
			a                    Annotation
			net, part, pin, note sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Side, &a.X, &a.Y, &net, &part, &pin, &note); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		a.Net, a.Part, a.Pin, a.Note = net.String, part.String, pin.String, note.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}
	return out, nil
}

// Add stores a new visible annotation and returns its id.
func (s *Store) Add(ctx context.Context, a Annotation) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO annotations (visible, side, posx, posy, net, part, pin, note)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	`, a.Side, a.X, a.Y, a.Net, a.Part, a.Pin, a.Note)
	if err != nil {
		return 0, fmt.Errorf("failed to insert annotation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read annotation id: %w", err)
	}
	return id, nil
}

// Remove hides an annotation. The row is kept.
func (s *Store) Remove(ctx context.Context, id int64) error {
	return s.exec(ctx, `UPDATE annotations SET visible = 0 WHERE id = ? AND visible = 1`, id)
}

// Update replaces the note of a visible annotation.
func (s *Store) Update(ctx context.Context, id int64, note string) error {
	return s.exec(ctx, `UPDATE annotations SET note = ? WHERE id = ? AND visible = 1`, note, id)
}

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update annotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update annotation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
