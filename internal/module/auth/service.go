package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/staffdesk/internal/domain"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// BootstrapActor is recorded as creator of the bootstrap admin.
const BootstrapActor = "system"

var (
	// ErrInvalidCredentials is returned for an unknown user, a wrong
	// password or an inactive account.
	ErrInvalidCredentials = domain.NewAppError(domain.CodeUnauthorized, "No active account found with the given credentials", nil)
	// ErrInvalidToken is returned for a malformed, expired or mistyped token.
	ErrInvalidToken = domain.NewAppError(domain.CodeUnauthorized, "Token is invalid or expired", nil)
)

// Service defines the token operations served over HTTP.
type Service interface {
	Pair(ctx context.Context, username, password string) (*PairResponse, error)
	Refresh(ctx context.Context, refresh string) (*RefreshResponse, error)
}

// UserStore is the account lookup the token service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// Config holds the signing secret and token lifetimes.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims are the JWT claims of both token types.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens. It implements Service and
// middleware.TokenVerifier.
type TokenService struct {
	users  UserStore
	secret []byte
	access time.Duration
	renew  time.Duration
	now    func() time.Time
}

var _ Service = (*TokenService)(nil)

// NewService creates a TokenService.
func NewService(users UserStore, cfg Config) *TokenService {
	return &TokenService{
		users:  users,
		secret: []byte(cfg.Secret),
		access: cfg.AccessTTL,
		renew:  cfg.RefreshTTL,
		now:    time.Now,
	}
}

// Pair authenticates username and password and issues an access and a
// refresh token.
func (s *TokenService) Pair(ctx context.Context, username, password string) (*PairResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Don't reveal whether the user exists.
		if domain.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	refresh, err := s.sign(user.Username, TokenTypeRefresh, s.renew)
	if err != nil {
		return nil, err
	}
	access, err := s.sign(user.Username, TokenTypeAccess, s.access)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "token pair issued", "username", user.Username)

	return &PairResponse{
		Access:  access,
		Refresh: refresh,
		User:    UserSchema{FirstName: user.FirstName, Email: user.Email},
	}, nil
}

// Refresh issues a new access token for a valid refresh token of an active
// account. The refresh token itself is returned unchanged.
func (s *TokenService) Refresh(ctx context.Context, refresh string) (*RefreshResponse, error) {
	claims, err := s.parse(refresh, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.checkActive(ctx, claims.Subject); err != nil {
		return nil, err
	}
	access, err := s.sign(claims.Subject, TokenTypeAccess, s.access)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "access token refreshed", "username", claims.Subject)
	return &RefreshResponse{Access: access, Refresh: refresh}, nil
}

// VerifyAccess returns the username of a valid access token. The account it
// was issued to must still exist and be active.
func (s *TokenService) VerifyAccess(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token, TokenTypeAccess)
	if err != nil {
		return "", err
	}
	if err := s.checkActive(ctx, claims.Subject); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// checkActive rejects tokens of deleted or deactivated accounts.
func (s *TokenService) checkActive(ctx context.Context, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("look up token subject: %w", err)
	}
	if !user.IsActive {
		return ErrInvalidToken
	}
	return nil
}

// EnsureAdmin creates an active account with the given credentials unless
// the username is taken.
func (s *TokenService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !domain.IsNotFound(err) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	admin.SetCreator(BootstrapActor)
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.InfoContext(ctx, "bootstrap admin created", "username", username)
	return nil
}

func (s *TokenService) sign(subject, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to sign token", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token, tokenType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
