package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/repository"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// ItemRequestService records requests for items nobody has listed yet.
type ItemRequestService struct {
	requests repository.ItemRequestRepository
	items    repository.ItemRepository
	users    repository.UserRepository
	clock    Clock
	events   eventEmitter
	logger   *zap.Logger
}

// ItemRequestDependencies bundles collaborators for the item request service.
type ItemRequestDependencies struct {
	RequestRepo repository.ItemRequestRepository
	ItemRepo    repository.ItemRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
	Clock       Clock
	Logger      *zap.Logger
}

// NewItemRequestService constructs the service.
func NewItemRequestService(deps ItemRequestDependencies) *ItemRequestService {
	clock := clockOrSystem(deps.Clock)
	logger := loggerOrNop(deps.Logger)
	return &ItemRequestService{
		requests: deps.RequestRepo,
		items:    deps.ItemRepo,
		users:    deps.UserRepo,
		clock:    clock,
		events:   eventEmitter{dispatcher: deps.Dispatcher, clock: clock, logger: logger},
		logger:   logger,
	}
}

// Create records a request stamped with the current time.
func (s *ItemRequestService) Create(ctx context.Context, requesterID int64, description string) (*domain.ItemRequest, error) {
	s.logger.Debug("create item request", zap.Int64("requester_id", requesterID))

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewValidationError("description must not be blank", map[string]any{"field": "description"})
	}
	if err := s.userExists(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &domain.ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     s.clock.Now(),
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	request.Items = []domain.Item{}

	s.logger.Info("item request created", zap.Int64("request_id", request.ID))
	s.events.publish(ctx, events.Event{
		Type:      events.EventItemRequestCreated,
		SubjectID: request.ID,
		ActorID:   requesterID,
		Payload:   events.ItemRequestCreatedPayload{Description: preview(description, 64)},
	})
	return request, nil
}

// ListOwn returns the requester's own requests newest first, each with the items offered for it.
func (s *ItemRequestService) ListOwn(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error) {
	if err := s.userExists(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// ListOthers returns requests made by everyone except userID, newest first.
func (s *ItemRequestService) ListOthers(ctx context.Context, userID int64, page domain.Page) ([]domain.ItemRequest, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListExcludingRequester(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// Get returns a single request with its items.
func (s *ItemRequestService) Get(ctx context.Context, userID, requestID int64) (*domain.ItemRequest, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(err, "item request", requestID)
	}
	withItems, err := s.withItems(ctx, []domain.ItemRequest{*request})
	if err != nil {
		return nil, err
	}
	return &withItems[0], nil
}

func (s *ItemRequestService) withItems(ctx context.Context, requests []domain.ItemRequest) ([]domain.ItemRequest, error) {
	if len(requests) == 0 {
		return []domain.ItemRequest{}, nil
	}
	items, err := s.items.ListByRequestIDs(ctx, domain.RequestIDs(requests))
	if err != nil {
		return nil, err
	}
	return domain.AttachItems(requests, items), nil
}

func (s *ItemRequestService) userExists(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return notFound(err, "user", id)
	}
	return nil
}
