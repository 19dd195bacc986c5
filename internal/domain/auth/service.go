package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"crmdesk/internal/database"
	"crmdesk/internal/domain"
	jwtsvc "crmdesk/internal/pkg/jwt"
	"crmdesk/internal/repository"
)

type Service struct {
	users      UserRepositoryInterface
	jwt        *jwtsvc.Service
	bcryptCost int

	// dummyHash is compared on unknown emails so both login failures cost
	// one bcrypt comparison.
	dummyHash   []byte
	compareHash func(hash, password []byte) error
}

func NewService(users UserRepositoryInterface, jwt *jwtsvc.Service, bcryptCost int) *Service {
	dummy, err := bcrypt.GenerateFromPassword([]byte("crmdesk-unknown-account"), bcryptCost)
	if err != nil {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("crmdesk-unknown-account"), bcrypt.DefaultCost)
	}
	return &Service{
		users:       users,
		jwt:         jwt,
		bcryptCost:  bcryptCost,
		dummyHash:   dummy,
		compareHash: bcrypt.CompareHashAndPassword,
	}
}

// Register creates a workspace owner.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.compareHash(s.dummyHash, []byte(req.Password))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.compareHash([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResolveSession validates a token and loads its user fresh from storage,
// so role and workspace changes apply on the next request.
func (s *Service) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}
