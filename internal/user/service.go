package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/user/entity"
	"github.com/appforge/service-builder-go-stdlib/pkg/utilities"
)

// Store is the credential store consumed by the service. Implemented by
// repo.UserRepo (Postgres) and repo.MemoryRepo.
type Store interface {
	Insert(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	ConsumeEdit(ctx context.Context, id string, limit int) (bool, error)
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLen = 4

// Service orchestrates registration and password authentication.
type Service struct {
	store  Store
	hasher auth.PasswordHasher
}

func NewService(store Store, hasher auth.PasswordHasher) *Service {
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}
	return &Service{store: store, hasher: hasher}
}

// Register creates a new account. Username defaults to the email when unset.
// A duplicate email surfaces as shared.ErrConflict; the store decides the
// winner under concurrent registration.
func (s *Service) Register(ctx context.Context, email, username, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", shared.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password too short", shared.ErrValidation)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = email
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		ID:           utilities.NewKSUID(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         entity.RoleBeginner,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email+password. Unknown email and wrong password
// collapse into the same error to avoid account enumeration.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, shared.ErrBadCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, shared.ErrBadCredentials
	}
	return u, nil
}

// FindIdentity implements auth.IdentityStore for the identity resolver.
func (s *Service) FindIdentity(ctx context.Context, id string) (*auth.Identity, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}, nil
}

// ConsumeEditQuota counts one edit against the caller's daily quota.
func (s *Service) ConsumeEditQuota(ctx context.Context, userID string) error {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.store.ConsumeEdit(ctx, userID, u.EditLimit())
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrQuotaExceeded
	}
	return nil
}
