package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts the booking. The partial unique index on
	// (tutor_id, date) for non-cancelled rows makes the conflict check
	// atomic; a unique violation is reported as ErrTimeConflict.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// Update persists date, duration, message and status. Like Create, a
	// unique violation on the slot index surfaces as ErrTimeConflict.
	Update(ctx context.Context, b *Booking) error

	// HasConflict checks for a non-cancelled booking of the tutor at the
	// exact timestamp. excludeID is used during updates to ignore the
	// booking itself.
	HasConflict(ctx context.Context, tutorID string, date time.Time, excludeID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("student_id", "tutor_id", "date", "duration_minutes", "message", "status").
		Values(b.StudentID, b.TutorID, b.Date, b.Duration, b.Message, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func bookingSelect() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"b.id", "b.student_id", "b.tutor_id",
		"b.date", "b.duration_minutes", "b.message", "b.status",
		"b.created_at", "b.updated_at",
		"s.name", "s.course", "s.year", "s.help_needed",
		"t.name", "t.course", "t.year", "t.skills",
	).
		From("public.bookings b").
		Join("public.users s ON b.student_id = s.id").
		Join("public.users t ON b.tutor_id = t.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.StudentID, &b.TutorID,
		&b.Date, &b.Duration, &b.Message, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
		&b.Student.Name, &b.Student.Course, &b.Student.Year, &b.Student.HelpNeeded,
		&b.Tutor.Name, &b.Tutor.Course, &b.Tutor.Year, &b.Tutor.Skills,
	); err != nil {
		return nil, err
	}
	b.Student.ID = b.StudentID
	b.Tutor.ID = b.TutorID
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := bookingSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	query := bookingSelect()

	if filter.StudentID != "" {
		query = query.Where(squirrel.Eq{"b.student_id": filter.StudentID})
	}
	if filter.TutorID != "" {
		query = query.Where(squirrel.Eq{"b.tutor_id": filter.TutorID})
	}

	sql, args, err := query.OrderBy("b.date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("date", b.Date).
		Set("duration_minutes", b.Duration).
		Set("message", b.Message).
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasConflict(ctx context.Context, tutorID string, date time.Time, excludeID string) (bool, error) {
	// Exact-timestamp match, not interval overlap: two bookings collide only
	// when their date values are identical and neither is cancelled.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"tutor_id": tutorID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.NotEq{"status": StatusCancelled})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build conflict check query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("conflict check failed: %w", err)
	}
	return exists, nil
}
