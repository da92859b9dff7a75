package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gigbook/internal/core"
	"gigbook/internal/storage"
)

type UserInput struct {
	Email    string
	Name     string
	Currency string
}

// UserService provisions user rows and serves the profile view with the
// cached totals. Credential handling and token issuance live outside this
// service entirely.
type UserService struct {
	storage *storage.SQLiteRepository
}

func NewUserService(storage *storage.SQLiteRepository) *UserService {
	return &UserService{storage: storage}
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*core.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, core.Invalid("valid email is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, core.Invalid("name is required")
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	u := &core.User{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Name:     in.Name,
		Currency: in.Currency,
	}
	if err := s.storage.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get returns the caller's profile. The totals it carries are the
// worker-maintained caches and may trail recent writes briefly.
func (s *UserService) Get(ctx context.Context, userID string) (*core.User, error) {
	return s.storage.GetUser(ctx, userID)
}
