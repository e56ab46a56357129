// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, credential verification, and the
// full lifecycle of access tokens: issue, verify, refresh, revoke.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todoserver/internal/common"
	"github.com/dmitrijs2005/todoserver/internal/server/config"
	"github.com/dmitrijs2005/todoserver/internal/server/id"
	"github.com/dmitrijs2005/todoserver/internal/server/models"
	"github.com/dmitrijs2005/todoserver/internal/server/repositories/repomanager"
)

// PasswordHasher is the one-way hashing contract AuthService depends on.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenCodec encodes and decodes signed, time-limited claim tokens.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Decode(token string) (subject string, exp time.Time, err error)
}

// Revoker is the deny-list consulted on every verification.
type Revoker interface {
	Revoke(token string, exp time.Time)
	IsRevoked(token string) bool
}

// AuthService provides authentication-related operations:
//   - Register: create users with hashed passwords
//   - Login: verify credentials and mint an access token
//   - VerifyToken / GetUserIDFromToken: resolve a token to its user
//   - RefreshToken: issue a fresh token and revoke the presented one
//   - Logout: revoke a token before its natural expiry
type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      PasswordHasher
	codec                       TokenCodec
	revoked                     Revoker
	accessTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService from its collaborators and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, codec TokenCodec, revoked Revoker, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		codec:                       codec,
		revoked:                     revoked,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user. The password is hashed before it reaches the
// repository; the plaintext is never stored or logged. A conflicting
// username surfaces as common.ErrorDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, username, firstName, lastName, password string) (*models.User, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           id.New(),
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateUsername) {
			return nil, common.ErrorDuplicateUsername
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the username/password pair and returns a signed access
// token bound to the username. An unknown username and a wrong password are
// both reported as common.ErrorInvalidCredentials so callers cannot probe
// for account existence.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorInvalidCredentials
	}

	token, err := s.codec.Issue(user.Username, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// VerifyToken resolves a bearer token to its user. Invalid, expired and
// revoked tokens, as well as tokens whose subject no longer exists, all
// surface as common.ErrorUnauthorized without further distinction.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	subject, _, err := s.codec.Decode(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	if s.revoked.IsRevoked(token) {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// RefreshToken verifies the presented token, issues a brand-new token for
// the same subject with a fresh TTL, and revokes the old one so that a
// refreshed token cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, oldToken string) (string, error) {
	user, err := s.VerifyToken(ctx, oldToken)
	if err != nil {
		return "", err
	}

	token, err := s.codec.Issue(user.Username, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	// the old token survived VerifyToken, so Decode cannot fail here
	if _, exp, err := s.codec.Decode(oldToken); err == nil {
		s.revoked.Revoke(oldToken, exp)
	}

	return token, nil
}

// Logout adds the token to the revocation set. It is idempotent and never
// fails for the caller: tokens that are already expired or were never valid
// have nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) {
	_, exp, err := s.codec.Decode(token)
	if err != nil {
		return
	}
	s.revoked.Revoke(token, exp)
}

// GetUserIDFromToken is a convenience composition of VerifyToken returning
// only the user's identifier, used by the ownership checks.
func (s *AuthService) GetUserIDFromToken(ctx context.Context, token string) (string, error) {
	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
