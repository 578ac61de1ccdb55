package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
)

type commentRepo struct {
	s *Store
}

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[comment.ItemID]; !ok {
		return repository.ErrNotFound
	}
	r.s.nextCommentID++
	comment.ID = r.s.nextCommentID
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepo) ListByItem(_ context.Context, itemID int64) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.Comment{}
	for _, c := range r.s.comments {
		if c.ItemID != itemID {
			continue
		}
		if author, ok := r.s.users[c.AuthorID]; ok {
			c.AuthorName = author.Name
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Created.Equal(result[j].Created) {
			return result[i].ID < result[j].ID
		}
		return result[i].Created.Before(result[j].Created)
	})
	return result, nil
}
