package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type UserRepository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
}

// Project is a saved set of form inputs. Data is stored as an opaque JSON blob.
type Project struct {
	ID        string          `json:"id"`
	UserID    int             `json:"-"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ProjectRepository interface {
	SaveProject(ctx context.Context, p Project) (Project, error)
	ListProjects(ctx context.Context, userID int) ([]Project, error)
	GetProject(ctx context.Context, userID int, id string) (Project, error)
	DeleteProject(ctx context.Context, userID int, id string) error
}

type Repository interface {
	UserRepository
	ProjectRepository
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS projects (
	id UUID PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS projects_user_idx ON projects (user_id, updated_at DESC);
`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", err
	}
	return id, hash, nil
}

// SaveProject inserts p or overwrites the row with the same id owned by the same user.
func (r *PostgresRepository) SaveProject(ctx context.Context, p Project) (Project, error) {
	p.UpdatedAt = time.Now().UTC()
	query := `INSERT INTO projects (id, user_id, name, data, updated_at) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
WHERE projects.user_id = EXCLUDED.user_id`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.Name, []byte(p.Data), p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return p, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) ListProjects(ctx context.Context, userID int) ([]Project, error) {
	query := "SELECT id, name, updated_at FROM projects WHERE user_id=$1 ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p := Project{UserID: userID}
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetProject(ctx context.Context, userID int, id string) (Project, error) {
	p := Project{ID: id, UserID: userID}
	var data []byte
	query := "SELECT name, data, updated_at FROM projects WHERE id=$1 AND user_id=$2"
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&p.Name, &data, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	p.Data = data
	return p, err
}

func (r *PostgresRepository) DeleteProject(ctx context.Context, userID int, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id=$1 AND user_id=$2", id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
