package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
)

type Service struct {
	repo Repository
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

// Register creates an active customer account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.FullName)
	if email == "" || name == "" {
		return User{}, apperr.Invalid("email and full name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, apperr.Persistence("failed to hash password", err)
	}

	created, err := s.repo.Create(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         auth.RoleCustomer,
		IsActive:     true,
	})
	if err != nil {
		return User{}, translate(err)
	}
	return created, nil
}

// Authenticate checks credentials. Unknown email and wrong password
// produce the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return User{}, translate(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, apperr.Unauthorized("invalid email or password")
	}
	if !u.IsActive {
		return User{}, apperr.Forbidden("account is deactivated")
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, id int) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

// Identity reports the stored role and active flag for auth.Current.
// An unknown user is Unauthorized: the token outlived the account.
func (s *Service) Identity(ctx context.Context, id int) (string, bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return "", false, apperr.Unauthorized("unauthorized")
	}
	if err != nil {
		return "", false, translate(err)
	}
	return u.Role, u.IsActive, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int, patch ProfilePatch) (User, error) {
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return User{}, apperr.Invalid("full name must not be empty")
		}
		patch.FullName = &name
	}
	if patch.Empty() {
		return s.Profile(ctx, id)
	}
	u, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// SetStatus activates or deactivates an account. Admins cannot lock themselves out.
func (s *Service) SetStatus(ctx context.Context, actorID, id int, active bool) (User, error) {
	if actorID == id && !active {
		return User{}, apperr.Invalid("cannot deactivate your own account")
	}
	u, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

func (s *Service) SetRole(ctx context.Context, actorID, id int, role string) (User, error) {
	if role != auth.RoleCustomer && role != auth.RoleAdmin {
		return User{}, apperr.Invalid("unknown role %q", role)
	}
	if actorID == id && role != auth.RoleAdmin {
		return User{}, apperr.Invalid("cannot remove your own admin role")
	}
	u, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return User{}, translate(err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("user not found")
	case errors.Is(err, ErrEmailExists):
		return apperr.Conflict("email already registered")
	default:
		return apperr.Persistence("user store failed", err)
	}
}
