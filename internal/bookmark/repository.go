package bookmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerseeker/peerseeker-backend/internal/user"
)

// Repository stores the save-for-later relation between two users.
type Repository interface {
	Add(ctx context.Context, userID, savedUserID string) error
	Remove(ctx context.Context, userID, savedUserID string) error
	Exists(ctx context.Context, userID, savedUserID string) (bool, error)
	// ListSaved returns the saved users' profiles, most recently saved first.
	ListSaved(ctx context.Context, userID string) ([]*user.User, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Add(ctx context.Context, userID, savedUserID string) error {
	const query = `
		INSERT INTO public.bookmarks (user_id, saved_user_id)
		VALUES ($1, $2)
	`

	if _, err := r.pool.Exec(ctx, query, userID, savedUserID); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			// Concurrent double-toggle; the bookmark is there, which is
			// what the caller asked for.
			return nil
		}
		return fmt.Errorf("add bookmark failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Remove(ctx context.Context, userID, savedUserID string) error {
	const query = `
		DELETE FROM public.bookmarks
		WHERE user_id = $1 AND saved_user_id = $2
	`

	if _, err := r.pool.Exec(ctx, query, userID, savedUserID); err != nil {
		return fmt.Errorf("remove bookmark failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Exists(ctx context.Context, userID, savedUserID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookmarks
			WHERE user_id = $1 AND saved_user_id = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, savedUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("bookmark lookup failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListSaved(ctx context.Context, userID string) ([]*user.User, error) {
	const query = `
		SELECT
			u.id, u.name, u.email, u.password_hash, u.role, u.course, u.year, u.bio,
			u.skills, u.help_needed, u.avatar_path, u.created_at, u.updated_at
		FROM public.bookmarks bm
		JOIN public.users u ON bm.saved_user_id = u.id
		WHERE bm.user_id = $1
		ORDER BY bm.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks failed: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Course, &u.Year, &u.Bio,
			&u.Skills, &u.HelpNeeded, &u.AvatarPath, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bookmarked user failed: %w", err)
		}
		users = append(users, &u)
	}

	return users, nil
}
