package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/domain"
	"github.com/spec-kit/shareit/internal/repository"
	apperrors "github.com/spec-kit/shareit/pkg/util/errorutil"
)

// UserService manages the user directory.
type UserService struct {
	users    repository.UserRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// UserCreateInput describes user creation payload.
type UserCreateInput struct {
	Name  string
	Email string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:    deps.UserRepo,
		validate: validator.New(),
		logger:   loggerOrNop(deps.Logger),
	}
}

// Create registers a user with a unique email.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	s.logger.Debug("create user", zap.String("email", input.Email))

	user := &domain.User{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
	}
	if user.Name == "" {
		return nil, apperrors.NewValidationError("name must not be blank", map[string]any{"field": "name"})
	}
	if err := s.validateEmail(user.Email); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, user.Email, 0); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.mapWriteError(err, user.Email)
	}
	s.logger.Info("user created", zap.Int64("user_id", user.ID))
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return user, nil
}

// Exists reports a NotFound error when the user is missing.
func (s *UserService) Exists(ctx context.Context, id int64) error {
	_, err := s.Get(ctx, id)
	return err
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Update applies a partial update. Blank fields keep their current value.
func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	s.logger.Debug("update user", zap.Int64("user_id", id))

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := domain.MergeUser(*current, patch)
	if err := s.validateEmail(merged.Email); err != nil {
		return nil, err
	}
	if !strings.EqualFold(merged.Email, current.Email) {
		if err := s.ensureEmailFree(ctx, merged.Email, id); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, &merged); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(err, "user", id)
		}
		return nil, s.mapWriteError(err, merged.Email)
	}
	s.logger.Info("user updated", zap.Int64("user_id", id))
	return &merged, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Exists(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, "user", id)
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

func (s *UserService) validateEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperrors.NewValidationError("email is invalid", map[string]any{"field": "email", "value": email})
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return emailConflict(email)
}

func (s *UserService) mapWriteError(err error, email string) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return emailConflict(email)
	}
	return err
}

func emailConflict(email string) error {
	return apperrors.NewConflict("user with this email already exists", map[string]any{"email": email})
}
