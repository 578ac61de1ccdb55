package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shareit/internal/domain"
)

// BookingFilter selects bookings for a listing. Exactly one of BookerID or OwnerID is expected.
type BookingFilter struct {
	BookerID *int64
	OwnerID  *int64
	State    domain.BookingState
	Now      time.Time
	Page     domain.Page
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateStatus moves a booking from one status to another. It returns ErrStatusConflict when
	// the booking is no longer in status from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	FindLast(ctx context.Context, itemID int64, now time.Time) (*domain.ShortBooking, error)
	FindNext(ctx context.Context, itemID int64, now time.Time) (*domain.ShortBooking, error)
	ListByItemAndBookerEndedBefore(ctx context.Context, itemID, bookerID int64, before time.Time) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingSelect = `
        SELECT b.id, b.start_date, b.end_date, b.status,
               i.id, i.name, i.description, i.is_available, i.owner_id, i.request_id,
               u.id, u.name, u.email
        FROM bookings b
        JOIN items i ON i.id = b.item_id
        JOIN users u ON u.id = b.booker_id`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		booking.Start,
		booking.End,
		booking.Item.ID,
		booking.Booker.ID,
		booking.Status,
	).Scan(&booking.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.pool.QueryRow(ctx, bookingSelect+` WHERE b.id=$1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	const query = `UPDATE bookings SET status=$1 WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.BookerID != nil {
		args = append(args, *filter.BookerID)
		clauses = append(clauses, fmt.Sprintf("b.booker_id=$%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("i.owner_id=$%d", len(args)))
	}

	switch filter.State {
	case domain.StateCurrent:
		args = append(args, filter.Now)
		clauses = append(clauses, fmt.Sprintf("b.start_date <= $%d AND b.end_date >= $%d", len(args), len(args)))
	case domain.StatePast:
		args = append(args, filter.Now)
		clauses = append(clauses, fmt.Sprintf("b.end_date < $%d", len(args)))
	case domain.StateFuture:
		args = append(args, filter.Now)
		clauses = append(clauses, fmt.Sprintf("b.start_date > $%d", len(args)))
	case domain.StateWaiting:
		args = append(args, domain.BookingWaiting)
		clauses = append(clauses, fmt.Sprintf("b.status=$%d", len(args)))
	case domain.StateRejected:
		args = append(args, domain.BookingRejected)
		clauses = append(clauses, fmt.Sprintf("b.status=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY b.start_date DESC, b.id LIMIT %d OFFSET %d`,
		bookingSelect, strings.Join(clauses, " AND "), filter.Page.Limit(), filter.Page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepository) FindLast(ctx context.Context, itemID int64, now time.Time) (*domain.ShortBooking, error) {
	const query = `
        SELECT id, booker_id, start_date, end_date FROM bookings
        WHERE item_id=$1 AND status=$2
          AND (end_date < $3 OR (start_date < $3 AND end_date > $3))
        ORDER BY end_date DESC LIMIT 1`
	return r.findShort(ctx, query, itemID, domain.BookingApproved, now)
}

func (r *bookingRepository) FindNext(ctx context.Context, itemID int64, now time.Time) (*domain.ShortBooking, error) {
	const query = `
        SELECT id, booker_id, start_date, end_date FROM bookings
        WHERE item_id=$1 AND status=$2 AND start_date > $3
        ORDER BY start_date ASC LIMIT 1`
	return r.findShort(ctx, query, itemID, domain.BookingApproved, now)
}

// findShort returns nil without error when no booking qualifies.
func (r *bookingRepository) findShort(ctx context.Context, query string, args ...any) (*domain.ShortBooking, error) {
	var short domain.ShortBooking
	err := r.pool.QueryRow(ctx, query, args...).Scan(&short.ID, &short.BookerID, &short.Start, &short.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &short, nil
}

func (r *bookingRepository) ListByItemAndBookerEndedBefore(ctx context.Context, itemID, bookerID int64, before time.Time) ([]domain.Booking, error) {
	query := bookingSelect + ` WHERE b.item_id=$1 AND b.booker_id=$2 AND b.end_date < $3 ORDER BY b.end_date DESC`
	rows, err := r.pool.Query(ctx, query, itemID, bookerID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(
		&b.ID,
		&b.Start,
		&b.End,
		&b.Status,
		&b.Item.ID,
		&b.Item.Name,
		&b.Item.Description,
		&b.Item.Available,
		&b.Item.OwnerID,
		&b.Item.RequestID,
		&b.Booker.ID,
		&b.Booker.Name,
		&b.Booker.Email,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	result := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}
