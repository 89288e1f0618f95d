package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-rest-service/internal/domain/user"
	apperrors "user-rest-service/pkg/errors"
	"user-rest-service/pkg/logger"
)

// Messages reported to API clients.
const (
	MsgFieldsRequired = "name and email are required"
	MsgUserNotFound   = "User not found"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)             // All users, newest first
	GetByID(ctx context.Context, id int64) (*domain.User, error) // *errors.NotFoundError when absent
	Create(ctx context.Context, u *domain.User) (int64, error)   // Returns the assigned id
	Update(ctx context.Context, u *domain.User) (int64, error)   // Returns rows affected
	Delete(ctx context.Context, id int64) (int64, error)         // Returns rows affected
}

// Service implements Usecase on top of a Repository.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new Service.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

var _ Usecase = (*Service)(nil)

// ListUsers returns every user, most recently created first.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}
	return &ListUsersResponse{Users: users}, nil
}

// GetUser fetches a single user.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.WithContext(ctx, s.log).Error("failed to get user", zap.Int64("id", in.ID), zap.Error(err))
		}
		return nil, err
	}
	return &GetUserResponse{User: toDTO(*u)}, nil
}

// CreateUser inserts a user once name and email are both present.
// Email uniqueness is left to the storage constraint.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("create user validation failed", zap.Error(err))
		return nil, apperrors.NewValidationError("", MsgFieldsRequired)
	}

	log.Info("creating user", zap.String("name", *in.Name), zap.String("email", *in.Email))

	id, err := s.repo.Create(ctx, &domain.User{Name: *in.Name, Email: *in.Email})
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return &CreateUserResponse{ID: id}, nil
}

// UpdateUser overwrites name and email of an existing user.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) error {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("update user validation failed", zap.Int64("id", in.ID), zap.Error(err))
		return apperrors.NewValidationError("", MsgFieldsRequired)
	}

	log.Info("updating user", zap.Int64("id", in.ID), zap.String("name", *in.Name), zap.String("email", *in.Email))

	rows, err := s.repo.Update(ctx, &domain.User{ID: in.ID, Name: *in.Name, Email: *in.Email})
	if err != nil {
		log.Error("failed to update user", zap.Int64("id", in.ID), zap.Error(err))
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("user", MsgUserNotFound)
	}
	return nil
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) error {
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user", zap.Int64("id", in.ID))

	rows, err := s.repo.Delete(ctx, in.ID)
	if err != nil {
		log.Error("failed to delete user", zap.Int64("id", in.ID), zap.Error(err))
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFoundError("user", MsgUserNotFound)
	}
	return nil
}

func toDTO(u domain.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email}
}
