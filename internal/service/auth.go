package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/neuronotes/internal/domain"
	"github.com/Skotchmaster/neuronotes/internal/hash"
	"github.com/Skotchmaster/neuronotes/internal/logging"
	"github.com/Skotchmaster/neuronotes/internal/repo"
	"github.com/Skotchmaster/neuronotes/internal/tokens"
)

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByID(ctx context.Context, id uint) (*domain.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(userID uint) (string, time.Time, error)
	Verify(token string) (uint, error)
}

type AuthService struct {
	Repo      UserRepo
	Tokens    TokenIssuer
	Events    EventPublisher
	UserTopic string
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrValidation
	}

	_, err := s.Repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		l.Warn("register_error", "status", 400, "reason", "username already taken")
		return nil, ErrConflict
	case !errors.Is(err, repo.ErrNotFound):
		l.Error("register_error", "status", 500, "reason", "cannot look up user", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user, err := s.Repo.CreateUser(ctx, username, pwHash)
	if err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_error", "status", 400, "reason", "username already taken")
			return nil, ErrConflict
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, s.UserTopic, user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			return nil, ErrUnauthorized
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return nil, ErrUnauthorized
	}

	token, exp, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, s.UserTopic, user.ID, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})
	return &LoginResult{AccessToken: token, TokenType: tokens.TokenType, ExpiresAt: exp}, nil
}

// Identify resolves the user behind an Authorization header value. A valid
// token whose user no longer exists is treated as unauthorized.
func (s *AuthService) Identify(ctx context.Context, authHeader string) (*domain.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.identify")

	token, ok := BearerToken(authHeader)
	if !ok {
		return nil, ErrUnauthorized
	}
	userID, err := s.Tokens.Verify(token)
	if err != nil {
		l.Warn("identify_failed", "status", 401, "reason", "invalid token", "error", err)
		return nil, ErrUnauthorized
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("identify_failed", "status", 401, "reason", "user no longer exists", "user_id", userID)
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// BearerToken extracts the token from "Bearer <token>".
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
