package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"crmdesk/internal/access"
	"crmdesk/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = NormalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther reports whether another user already uses email.
func (r *UserRepository) EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? AND id <> ?", NormalizeEmail(email), userID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, email string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": NormalizeEmail(email)}).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("password", hash).Error
}

// ListWorkspace returns the workspace owner and its employees.
func (r *UserRepository) ListWorkspace(ctx context.Context, workspaceID int64) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := r.db.WithContext(ctx).Scopes(access.UsersInWorkspace(workspaceID)).
		Order("users.id ASC").Find(&users).Error
	return users, err
}

// ListEmployees returns the employees owned by an admin.
func (r *UserRepository) ListEmployees(ctx context.Context, ownerID int64) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND role = ?", ownerID, domain.RoleEmployee).
		Order("id ASC").Find(&users).Error
	return users, err
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
