// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential checks, and issuing
// access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todoapp/internal/common"
	"github.com/dmitrijs2005/todoapp/internal/dbx"
	"github.com/dmitrijs2005/todoapp/internal/server/auth"
	"github.com/dmitrijs2005/todoapp/internal/server/config"
	"github.com/dmitrijs2005/todoapp/internal/server/models"
	"github.com/dmitrijs2005/todoapp/internal/server/repositories/users"
)

// UsersRepoFactory builds a users repository over a plain handle or an open
// transaction, so the service can scope calls with dbx.WithTx.
type UsersRepoFactory func(db dbx.DBTX) users.Repository

// UserService provides authentication-related operations:
// - Register: create users, rejecting duplicate usernames and emails
// - Login: verify credentials and mint an access token
// - Authenticate: resolve a bearer token back to an active user
type UserService struct {
	db                          *sql.DB
	usersRepo                   UsersRepoFactory
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, usersRepo UsersRepoFactory, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		usersRepo:                   usersRepo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new active user with a bcrypt-hashed password. The
// duplicate checks and the insert run in one transaction; taken usernames
// and emails map to ErrUsernameTaken and ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.usersRepo(tx)

		if _, err := repo.GetByUsername(ctx, username); err == nil {
			return common.ErrUsernameTaken
		} else if !errors.Is(err, common.ErrNotFound) {
			return common.ErrInternal
		}

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrEmailTaken
		} else if !errors.Is(err, common.ErrNotFound) {
			return common.ErrInternal
		}

		user := &models.User{Username: username, Email: email, HashedPassword: hash, IsActive: true}
		u, err := repo.Create(ctx, user)
		if err != nil {
			// The unique indexes still fire when a concurrent signup wins
			// the race between the checks above and this insert.
			if errors.Is(err, common.ErrUsernameTaken) || errors.Is(err, common.ErrEmailTaken) {
				return err
			}
			return fmt.Errorf("error creating user: %v", err)
		}

		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the password against the stored hash and, on success,
// returns a new access token. Unknown users, wrong passwords and
// deactivated accounts all yield ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.usersRepo(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	if !auth.VerifyPassword(password, user.HashedPassword) {
		return "", common.ErrUnauthorized
	}
	if !user.IsActive {
		return "", common.ErrUnauthorized
	}

	return auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
}

// Authenticate resolves a bearer token to its user. Invalid tokens, unknown
// subjects, and deactivated accounts all yield ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	user, err := s.usersRepo(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !user.IsActive {
		return nil, common.ErrUnauthorized
	}

	return user, nil
}
