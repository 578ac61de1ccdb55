package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shareit/internal/domain"
)

// ItemRequestRepository encapsulates item request persistence. Items are attached by the service.
type ItemRequestRepository interface {
	Create(ctx context.Context, request *domain.ItemRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error)
	ListExcludingRequester(ctx context.Context, requesterID int64, page domain.Page) ([]domain.ItemRequest, error)
}

type itemRequestRepository struct {
	pool *pgxpool.Pool
}

// NewItemRequestRepository instantiates repository.
func NewItemRequestRepository(pool *pgxpool.Pool) ItemRequestRepository {
	return &itemRequestRepository{pool: pool}
}

func (r *itemRequestRepository) Create(ctx context.Context, request *domain.ItemRequest) error {
	const query = `
        INSERT INTO requests (description, requester_id, created)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, request.Description, request.RequesterID, request.Created).Scan(&request.ID)
}

func (r *itemRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error) {
	const query = `SELECT id, description, requester_id, created FROM requests WHERE id=$1`
	var request domain.ItemRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.Description,
		&request.RequesterID,
		&request.Created,
	); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *itemRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error) {
	const query = `
        SELECT id, description, requester_id, created FROM requests
        WHERE requester_id=$1 ORDER BY created DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, requesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItemRequests(rows)
}

func (r *itemRequestRepository) ListExcludingRequester(ctx context.Context, requesterID int64, page domain.Page) ([]domain.ItemRequest, error) {
	const query = `
        SELECT id, description, requester_id, created FROM requests
        WHERE requester_id<>$1 ORDER BY created DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, requesterID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItemRequests(rows)
}

func scanItemRequests(rows pgx.Rows) ([]domain.ItemRequest, error) {
	result := []domain.ItemRequest{}
	for rows.Next() {
		var request domain.ItemRequest
		if err := rows.Scan(&request.ID, &request.Description, &request.RequesterID, &request.Created); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
