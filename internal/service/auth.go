package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/tokens"
	"github.com/Skotchmaster/catalog/internal/transport"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TTL       time.Duration
	Events    events.Publisher
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	User        *models.User
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")
	email := strings.TrimSpace(req.Email)

	taken, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, events.UserRegistered, user)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	issued, err := tokens.Issue(user.ID, s.JWTSecret, s.TTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: issued.Token,
		ExpiresIn:   int64(s.TTL / time.Second),
		User:        user,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, claims *tokens.Claims) (*models.User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Logout revokes the token the claims came from until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.Claims) error {
	id, err := claims.UserID()
	if err != nil {
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return tokens.ErrInvalidToken
	}

	if err := s.Repo.RevokeToken(ctx, &models.RevokedToken{
		JTI:       claims.ID,
		UserID:    id,
		ExpiresAt: claims.ExpiresAt.Time,
	}); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.publish(ctx, events.UserLoggedOut, &models.User{ID: id})
	return nil
}

func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.Repo.IsRevoked(ctx, jti)
}

// PurgeRevoked removes revocations of tokens that have expired on their own.
func (s *AuthService) PurgeRevoked(ctx context.Context) (int64, error) {
	return s.Repo.PurgeRevoked(ctx, time.Now().UTC())
}

func (s *AuthService) publish(ctx context.Context, typ string, u *models.User) {
	if s.Events == nil {
		return
	}
	ev := events.UserEvent{Type: typ, UserID: u.ID, Email: u.Email, At: time.Now().UTC()}
	if err := s.Events.PublishEvent(ctx, events.UserTopic, strconv.FormatUint(uint64(u.ID), 10), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "type", typ, "user_id", u.ID, "error", err)
	}
}
