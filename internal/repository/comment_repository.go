package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shareit/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByItem returns comments oldest first with AuthorName filled.
	ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (text, item_id, author_id, created)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		comment.Text,
		comment.ItemID,
		comment.AuthorID,
		comment.Created,
	).Scan(&comment.ID)
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.item_id=$1
        ORDER BY c.created ASC, c.id ASC`
	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.Text,
			&comment.ItemID,
			&comment.AuthorID,
			&comment.AuthorName,
			&comment.Created,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
