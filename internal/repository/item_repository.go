package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shareit/internal/domain"
)

// ItemRepository encapsulates item persistence.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]domain.Item, error)
	// Search matches text case-insensitively against name or description of available items.
	Search(ctx context.Context, text string, page domain.Page) ([]domain.Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]domain.Item, error)
}

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository instantiates repository.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

const itemColumns = `id, name, description, is_available, owner_id, request_id`

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	const query = `
        INSERT INTO items (name, description, is_available, owner_id, request_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		item.RequestID,
	).Scan(&item.ID)
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	const query = `UPDATE items SET name=$1, description=$2, is_available=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id=$1`
	var item domain.Item
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Available,
		&item.OwnerID,
		&item.RequestID,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id=$1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *itemRepository) Search(ctx context.Context, text string, page domain.Page) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
        WHERE is_available = TRUE AND (LOWER(name) LIKE $1 OR LOWER(description) LIKE $1)
        ORDER BY id LIMIT $2 OFFSET $3`
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	rows, err := r.pool.Query(ctx, query, pattern, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *itemRepository) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]domain.Item, error) {
	if len(requestIDs) == 0 {
		return []domain.Item{}, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id = ANY($1) ORDER BY id`
	rows, err := r.pool.Query(ctx, query, requestIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	result := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Available,
			&item.OwnerID,
			&item.RequestID,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
