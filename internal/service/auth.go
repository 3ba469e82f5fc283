package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hatchops/internal/config"
	"hatchops/internal/model"
	"hatchops/internal/repository"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the caller identity carried by the token.
func (c *Claims) Actor() model.Actor {
	return model.Actor{UserID: c.UserID, Role: c.Role}
}

// Token is the login response.
type Token struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

// AuthService issues and verifies bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*Token, error)
	ParseToken(token string) (*Claims, error)
	// BootstrapAdmin creates the configured admin account when no user exists.
	BootstrapAdmin(ctx context.Context) (bool, error)
}

type authService struct {
	users repository.UserRepository
	cfg   config.AuthConfig
	log   *zap.Logger
	clock
}

func NewAuthService(users repository.UserRepository, cfg config.AuthConfig, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{users: users, cfg: cfg, log: log, clock: defaultClock()}
}

func (s *authService) Login(ctx context.Context, email, password string) (*Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrUnauthorized
	}
	u, err := s.users.FindByEmail(ctx, email)
	if repository.IsNoRows(err) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	now := s.now()
	expires := now.Add(s.cfg.TokenTTL())
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    "hatchops",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	key, err := s.signingKey()
	if err != nil {
		return nil, err
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expires, User: u}, nil
}

// signingKey refuses to sign or verify with a weak key, so a misconfigured
// process fails closed instead of accepting tokens anyone can forge.
func (s *authService) signingKey() ([]byte, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token signing disabled: %w", err)
	}
	return []byte(s.cfg.JWTSecret), nil
}

func (s *authService) ParseToken(token string) (*Claims, error) {
	key, err := s.signingKey()
	if err != nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer("hatchops"))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrUnauthorized, err)
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) BootstrapAdmin(ctx context.Context) (bool, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return false, nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	u, err := createUser(ctx, s.users, s.clock, NewUser{
		Name:     s.cfg.AdminName,
		Email:    s.cfg.AdminEmail,
		Role:     model.RoleAdmin,
		Password: s.cfg.AdminPassword,
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info("admin_bootstrapped", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return true, nil
}
