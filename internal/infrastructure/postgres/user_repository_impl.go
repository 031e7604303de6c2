package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
	"github.com/wishwell/wishwell-server/internal/domain/repository"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, age, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.Password, u.Age, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, age, avatar_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, age, avatar_url, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	u.UpdatedAt = time.Now().UTC()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, age = $4, avatar_url = $5, updated_at = $6
		WHERE id = $7
	`, u.Username, u.Email, u.Password, u.Age, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return translateUnique(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Age, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// translateUnique maps unique-constraint violations onto the repository's
// sentinel errors by sniffing the constraint name.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return repository.ErrDuplicateUsername
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return repository.ErrDuplicateEmail
		}
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
