package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/contacts-service/internal/domain"
)

// UserRepository defines persistence access for principals. Absence is
// reported as pgx.ErrNoRows; username/email uniqueness is enforced by the
// store's constraints, so concurrent duplicate inserts see a unique
// violation rather than racing an application-level check.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdateAvatar(ctx context.Context, email, avatarURL string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, hashed_password, role, confirmed, avatar, created_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, hashed_password, role, confirmed, avatar)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Confirmed,
		user.Avatar,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) ConfirmEmail(ctx context.Context, email string) error {
	const query = `UPDATE users SET confirmed=TRUE WHERE email=$1`
	cmd, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	const query = `UPDATE users SET hashed_password=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, hashedPassword, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, email, avatarURL string) (*domain.User, error) {
	const query = `
        UPDATE users SET avatar=$1 WHERE email=$2
        RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, query, avatarURL, email))
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, query, arg))
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.Confirmed,
		&user.Avatar,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
