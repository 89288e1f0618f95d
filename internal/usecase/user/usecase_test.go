package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-rest-service/internal/domain/user"
	apperrors "user-rest-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	return New(mockRepo, zaptest.NewLogger(t)), mockRepo
}

func strPtr(s string) *string { return &s }

var errDisk = apperrors.NewInternalError("failed to list users", errors.New("disk I/O error"))

// ==================== LIST ====================

func TestListUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 2, Name: "João", Email: "joao@email.com"},
		{ID: 1, Name: "Alice", Email: "alice@email.com"},
	}, nil)

	resp, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []User{
		{ID: 2, Name: "João", Email: "joao@email.com"},
		{ID: 1, Name: "Alice", Email: "alice@email.com"},
	}, resp.Users)
	mockRepo.AssertExpectations(t)
}

func TestListUsers_Empty(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	resp, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.NotNil(t, resp.Users)
	assert.Empty(t, resp.Users)
}

func TestListUsers_StorageError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errDisk)

	resp, err := svc.ListUsers(ctx)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, errDisk)
}

// ==================== GET ====================

func TestGetUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Teste", Email: "teste@email.com"}, nil)

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: 1})

	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Name: "Teste", Email: "teste@email.com"}, resp.User)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, apperrors.NewNotFoundError("user", MsgUserNotFound))

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: 42})

	assert.Nil(t, resp)
	assert.True(t, apperrors.IsNotFound(err))
}

// ==================== CREATE ====================

func TestCreateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "John Doe" && u.Email == "john@example.com"
	})).Return(int64(7), nil)

	resp, err := svc.CreateUser(ctx, CreateUserRequest{Name: strPtr("John Doe"), Email: strPtr("john@example.com")})

	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		in   CreateUserRequest
	}{
		{"missing name", CreateUserRequest{Email: strPtr("john@example.com")}},
		{"missing email", CreateUserRequest{Name: strPtr("John")}},
		{"both missing", CreateUserRequest{}},
		{"empty name", CreateUserRequest{Name: strPtr(""), Email: strPtr("john@example.com")}},
		{"empty email", CreateUserRequest{Name: strPtr("John"), Email: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo := setupTestService(t)

			resp, err := svc.CreateUser(context.Background(), tt.in)

			assert.Nil(t, resp)
			require.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), MsgFieldsRequired)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateUser_StorageError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	dup := apperrors.NewInternalError("failed to create user", errors.New("UNIQUE constraint failed: users.email"))
	mockRepo.On("Create", ctx, mock.Anything).Return(int64(0), dup)

	resp, err := svc.CreateUser(ctx, CreateUserRequest{Name: strPtr("John"), Email: strPtr("john@example.com")})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, dup)
}

// ==================== UPDATE ====================

func TestUpdateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, &domain.User{ID: 1, Name: "New", Email: "new@email.com"}).Return(int64(1), nil)

	err := svc.UpdateUser(ctx, UpdateUserRequest{ID: 1, Name: strPtr("New"), Email: strPtr("new@email.com")})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Update", ctx, mock.Anything).Return(int64(0), nil)

	err := svc.UpdateUser(ctx, UpdateUserRequest{ID: 99, Name: strPtr("New"), Email: strPtr("new@email.com")})

	require.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, MsgUserNotFound, err.Error())
}

func TestUpdateUser_MissingField(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateUserRequest
	}{
		{"missing email", UpdateUserRequest{ID: 1, Name: strPtr("New")}},
		{"empty name", UpdateUserRequest{ID: 1, Name: strPtr(""), Email: strPtr("new@email.com")}},
		{"empty email", UpdateUserRequest{ID: 1, Name: strPtr("New"), Email: strPtr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo := setupTestService(t)

			err := svc.UpdateUser(context.Background(), tt.in)

			assert.True(t, apperrors.IsValidation(err))
			mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

// ==================== DELETE ====================

func TestDeleteUser(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(int64(1), nil).Once()
	mockRepo.On("Delete", ctx, int64(1)).Return(int64(0), nil).Once()

	assert.NoError(t, svc.DeleteUser(ctx, DeleteUserRequest{ID: 1}))
	assert.True(t, apperrors.IsNotFound(svc.DeleteUser(ctx, DeleteUserRequest{ID: 1})))
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_StorageError(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(int64(0), errDisk)

	assert.ErrorIs(t, svc.DeleteUser(ctx, DeleteUserRequest{ID: 1}), errDisk)
}
