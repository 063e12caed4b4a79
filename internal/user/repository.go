package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
	UpdateAvatar(ctx context.Context, id, path string) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

const userColumns = `
	id, name, email, password_hash, role, course, year, bio,
	skills, help_needed, avatar_path, created_at, updated_at
`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Course,
		&u.Year,
		&u.Bio,
		&u.Skills,
		&u.HelpNeeded,
		&u.AvatarPath,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users (name, email, password_hash, role, course, year, bio, skills, help_needed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Course,
		u.Year,
		u.Bio,
		u.Skills,
		u.HelpNeeded,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}

	return nil
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `FROM public.users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}
	return u, nil
}

func (r *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + `FROM public.users WHERE lower(email) = lower($1)`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}
	return u, nil
}

func (r *pgxUserRepository) UpdateProfile(ctx context.Context, u *User) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.users").
		Set("name", u.Name).
		Set("course", u.Course).
		Set("year", u.Year).
		Set("bio", u.Bio).
		Set("skills", u.Skills).
		Set("help_needed", u.HelpNeeded).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) UpdateAvatar(ctx context.Context, id, path string) error {
	const query = `
		UPDATE public.users
		SET avatar_path = $1, updated_at = now()
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, path, id)
	if err != nil {
		return fmt.Errorf("update avatar failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "email", "password_hash", "role", "course", "year", "bio",
		"skills", "help_needed", "avatar_path", "created_at", "updated_at",
		"count(*) OVER() AS total_count",
	).From("public.users")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}
	if filter.Skill != "" {
		query = query.Where(squirrel.Expr("skills @> ARRAY[?]::text[]", filter.Skill))
	}
	if filter.HelpTopic != "" {
		query = query.Where(squirrel.Expr("help_needed @> ARRAY[?]::text[]", filter.HelpTopic))
	}

	query = query.OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = DefaultPageSize
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int

	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.Course,
			&u.Year,
			&u.Bio,
			&u.Skills,
			&u.HelpNeeded,
			&u.AvatarPath,
			&u.CreatedAt,
			&u.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		users = append(users, &u)
	}

	return users, total, nil
}
