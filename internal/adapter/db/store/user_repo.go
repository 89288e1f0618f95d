package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-rest-service/internal/domain/user"
	apperrors "user-rest-service/pkg/errors"
)

// UserRepo implements user.Repository with one parameterized statement per
// operation against the shared Store.
type UserRepo struct {
	store *Store
	log   *zap.Logger
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(s *Store, log *zap.Logger) *UserRepo {
	return &UserRepo{store: s, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"not null"`
	Email string `gorm:"not null;unique"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m UserSchema) toDomain() user.User {
	return user.User{ID: m.ID, Name: m.Name, Email: m.Email}
}

// List returns every user, most recently created first.
func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var models []UserSchema
	if err := db.Order("id DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = m.toDomain()
	}
	return users, nil
}

// GetByID returns the user with the given id or a *errors.NotFoundError.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var model UserSchema
	if err := db.Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	u := model.toDomain()
	return &u, nil
}

// Create inserts a new user and returns the id assigned by storage.
// A duplicate email surfaces as a *errors.InternalError carrying the
// constraint violation.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, apperrors.NewInternalError("user cannot be nil", nil)
	}

	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}

	model := UserSchema{Name: u.Name, Email: u.Email}
	if err := db.Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return 0, apperrors.NewInternalError("failed to create user", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update overwrites name and email of the row matching u.ID and returns the
// number of rows affected, 0 when no such row exists.
func (r *UserRepo) Update(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, apperrors.NewInternalError("user cannot be nil", nil)
	}

	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}

	res := db.Model(&UserSchema{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "email": u.Email})
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", u.ID))
		return 0, apperrors.NewInternalError("failed to update user", res.Error)
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID), zap.Int64("rows_affected", res.RowsAffected))
	return res.RowsAffected, nil
}

// Delete removes the row matching id and returns the number of rows affected.
func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}

	res := db.Where("id = ?", id).Delete(&UserSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return 0, apperrors.NewInternalError("failed to delete user", res.Error)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id), zap.Int64("rows_affected", res.RowsAffected))
	return res.RowsAffected, nil
}
