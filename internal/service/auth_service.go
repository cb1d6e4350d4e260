package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionRevoked     = errors.New("account disabled, removed or changed role")
)

// TokenTypeAdmin marks back-office tokens.
const TokenTypeAdmin = "admin"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType   string          `json:"token_type"`
	UserID      string          `json:"user_id"`
	Role        model.AdminRole `json:"role"`
	Permissions []string        `json:"permissions,omitempty"`
}

// SessionStore tracks issued token ids so logout can revoke them.
type SessionStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, jti string) (string, error)
	Delete(ctx context.Context, jti string) error
}

// RedisSessionStore keeps one key per issued token.
type RedisSessionStore struct {
	rdb *redis.Client
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func (s *RedisSessionStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, config.CacheKey.AdminSessionKey(jti), userID, ttl).Err()
}

func (s *RedisSessionStore) Lookup(ctx context.Context, jti string) (string, error) {
	userID, err := s.rdb.Get(ctx, config.CacheKey.AdminSessionKey(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, config.CacheKey.AdminSessionKey(jti)).Err()
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token       string           `json:"token"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	User        *model.AdminUser `json:"user"`
	Permissions []string         `json:"permissions"`
}

// AuthService handles admin authentication, JWT, and session management.
type AuthService struct {
	users    AdminUserStore
	sessions SessionStore
	secret   []byte
	expiry   time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, users AdminUserStore, sessions SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		secret:   []byte(cfg.JWTSecret),
		expiry:   cfg.JWTExpiry,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

// Login checks the credentials of an active admin and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !u.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, claims.ID, claims.UserID, s.expiry); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		s.log.Warn().Err(err).Str("admin_id", u.ID.Hex()).Msg("Failed to stamp last login")
	}
	u.LastLoginAt = &now

	return &LoginResult{
		Token:       token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        u,
		Permissions: claims.Permissions,
	}, nil
}

func (s *AuthService) issue(u *model.AdminUser) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		TokenType:   TokenTypeAdmin,
		UserID:      u.ID.Hex(),
		Role:        u.Role,
		Permissions: u.Role.PermissionCodes(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks the token has not been logged out and that its
// account is still active with the role the token was issued for. A session
// failing the account check is dropped.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	userID, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return err
	}
	if userID != claims.UserID {
		return ErrSessionNotFound
	}

	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil && !isMissing(err) {
		return fmt.Errorf("load admin: %w", err)
	}
	if err != nil || !u.Active || u.Role != claims.Role {
		if delErr := s.sessions.Delete(ctx, claims.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("admin_id", claims.UserID).Msg("Failed to drop revoked session")
		}
		s.log.Info().Str("admin_id", claims.UserID).Msg("Session revoked after account change")
		return ErrSessionRevoked
	}
	return nil
}

// Logout revokes the token's session.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	return s.sessions.Delete(ctx, claims.ID)
}

// Me returns the account behind a token.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.AdminUser, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if isMissing(err) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return u, nil
}
