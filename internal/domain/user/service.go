package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"crmdesk/internal/database"
	"crmdesk/internal/domain"
	"crmdesk/internal/repository"
)

// UserRepositoryInterface lists the repository methods the user service needs.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	ListWorkspace(ctx context.Context, workspaceID int64) ([]domain.User, error)
	ListEmployees(ctx context.Context, ownerID int64) ([]domain.User, error)
}

type Service struct {
	users      UserRepositoryInterface
	bcryptCost int
}

func NewService(users UserRepositoryInterface, bcryptCost int) *Service {
	return &Service{users: users, bcryptCost: bcryptCost}
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*domain.User, error) {
	taken, err := s.users.EmailTakenByOther(ctx, req.Email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailInUse
	}

	if err := s.users.UpdateProfile(ctx, userID, req.Name, req.Email); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return s.Me(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	u, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

// Team lists the employees of an admin's workspace.
func (s *Service) Team(ctx context.Context, adminID int64) ([]domain.User, error) {
	return s.users.ListEmployees(ctx, adminID)
}

// CreateEmployee adds an employee to the admin's workspace.
func (s *Service) CreateEmployee(ctx context.Context, adminID int64, req CreateEmployeeRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	owner := adminID
	u := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleEmployee,
		OwnerID:      &owner,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

// WorkspaceUsers lists everyone in the workspace, owner first.
func (s *Service) WorkspaceUsers(ctx context.Context, workspaceID int64) ([]domain.User, error) {
	return s.users.ListWorkspace(ctx, workspaceID)
}
