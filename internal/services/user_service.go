package services

import (
	"context"

	"gigmarket/internal/domain"
	"gigmarket/internal/repository"

	"github.com/google/uuid"
)

// UserService exposes public profile lookups.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}
