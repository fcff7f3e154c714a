package services

import (
	"context"
	"time"

	"gigmarket/config"
	"gigmarket/internal/domain"
	"gigmarket/internal/repository"
	gigmarket_errors "gigmarket/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService verifies access tokens minted by the external identity
// provider and mirrors the caller's profile into the local users table.
// It never issues tokens itself.
type AuthService struct {
	users     repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

type AccessClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, gigmarket_errors.ErrUnauthenticated
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, gigmarket_errors.ErrUnauthenticated
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, gigmarket_errors.ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, gigmarket_errors.ErrUnauthenticated
	}

	return *claims, nil
}

// ResolveIdentity parses a token into the caller's Identity.
func (s *AuthService) ResolveIdentity(tokenString string) (Identity, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return Identity{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, gigmarket_errors.ErrUnauthenticated
	}

	return Identity{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.Name,
		Avatar: claims.Avatar,
	}, nil
}

// EnsureProfile upserts the local profile row for an authenticated caller
// so counterparty lookups can resolve a display name.
func (s *AuthService) EnsureProfile(ctx context.Context, id Identity) (domain.User, error) {
	u := domain.User{
		ID:        id.UserID,
		Email:     id.Email,
		Name:      id.Name,
		AvatarURL: id.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
