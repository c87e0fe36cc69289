package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MinPasswordLen = 6
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Service
	Events events.Publisher
	Now    func() time.Time
}

type LoginResult struct {
	Token string
	User  *models.User
}

func (h *AuthService) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func validateCredentials(username, password string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen || n > MaxUsernameLen {
		return newError(ErrValidation, "username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen)
	}
	if len(password) < MinPasswordLen {
		return newError(ErrValidation, "password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > pkg_hash.MaxPasswordLen {
		return newError(ErrValidation, "password must be at most %d bytes", pkg_hash.MaxPasswordLen)
	}
	return nil
}

func (h *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: pwHash}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, newError(ErrConflict, "username already exists")
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, h.Events, events.TopicUser, user.ID.String(), events.UserRegistered, map[string]string{
		"id":       user.ID.String(),
		"username": user.Username,
	})
	return user, nil
}

func (h *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := h.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, newError(ErrInvalidCredentials, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, newError(ErrInvalidCredentials, "invalid username or password")
	}

	token, err := h.Tokens.Issue(user.ID.String())
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// CurrentUser resolves the authenticated user id to its record. A token
// whose user no longer exists is treated as unauthorized.
func (h *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Invalid authentication token")
	}
	user, err := h.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUnauthorized, "Invalid authentication token")
		}
		return nil, err
	}
	return user, nil
}

func (h *AuthService) DeleteUser(ctx context.Context, userID string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.delete")

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Invalid authentication token")
	}
	user, err := h.Repo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		l.Error("delete_user_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, h.Events, events.TopicUser, user.ID.String(), events.UserDeleted, map[string]string{
		"id":       user.ID.String(),
		"username": user.Username,
	})
	return user, nil
}

// LogOut puts the token's id on the deny-list until the token expires.
func (h *AuthService) LogOut(ctx context.Context, claims *tokens.Claims) error {
	if claims == nil || claims.ID == "" {
		return newError(ErrUnauthorized, "Invalid authentication token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return newError(ErrUnauthorized, "Invalid authentication token")
	}

	var expiresAt int64
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Unix()
	}
	err = h.Repo.RevokeToken(ctx, &models.RevokedToken{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		RevokedAt: h.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// PurgeRevoked drops deny-list entries for tokens that have expired.
func (h *AuthService) PurgeRevoked(ctx context.Context) (int64, error) {
	return h.Repo.PurgeExpiredTokens(ctx, h.now())
}

func publish(ctx context.Context, p events.Publisher, topic, key, kind string, payload any) {
	if p == nil {
		return
	}
	err := p.PublishEvent(ctx, topic, key, events.Event{Type: kind, Payload: payload})
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", kind, "error", err)
	}
}
