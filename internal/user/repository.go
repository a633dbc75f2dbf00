package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"examprep/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const (
	userColumns = `id, name, email, password_hash, role, created_at`

	createUserQuery  = `INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING ` + userColumns
	findByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	findByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	emailExistsQuery = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, createUserQuery, name, email, passwordHash, role); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, findByEmailQuery, email)
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.findOne(ctx, findByIDQuery, id)
}

func (r *repository) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, emailExistsQuery, email)
}
