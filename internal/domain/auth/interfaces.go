package auth

import (
	"context"

	"crmdesk/internal/domain"
)

// UserRepositoryInterface lists the repository methods the auth service needs.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
