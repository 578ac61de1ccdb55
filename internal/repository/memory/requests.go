package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
)

type itemRequestRepo struct {
	s *Store
}

func (r *itemRequestRepo) Create(_ context.Context, request *domain.ItemRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextRequestID++
	request.ID = r.s.nextRequestID
	stored := *request
	stored.Items = nil
	r.s.requests[request.ID] = stored
	return nil
}

func (r *itemRequestRepo) GetByID(_ context.Context, id int64) (*domain.ItemRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	request, ok := r.s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &request, nil
}

func (r *itemRequestRepo) ListByRequester(_ context.Context, requesterID int64) ([]domain.ItemRequest, error) {
	return r.collect(func(req domain.ItemRequest) bool { return req.RequesterID == requesterID }), nil
}

func (r *itemRequestRepo) ListExcludingRequester(_ context.Context, requesterID int64, page domain.Page) ([]domain.ItemRequest, error) {
	matched := r.collect(func(req domain.ItemRequest) bool { return req.RequesterID != requesterID })
	start, end := page.Window(len(matched))
	return matched[start:end], nil
}

// collect returns matching requests newest first.
func (r *itemRequestRepo) collect(match func(domain.ItemRequest) bool) []domain.ItemRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []domain.ItemRequest{}
	for _, req := range r.s.requests {
		if match(req) {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Created.Equal(result[j].Created) {
			return result[i].ID > result[j].ID
		}
		return result[i].Created.After(result[j].Created)
	})
	return result
}
