// Package auth implements registration, login and signed-token identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinechat/backend/internal/model/user"
	"github.com/cinechat/backend/internal/store"
)

var (
	ErrCredentialsRequired = errors.New("email and password required")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrWeakPassword        = errors.New("weak password")
	ErrEmailTaken          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenInvalid        = errors.New("token invalid")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	bcryptCost = 12
	tokenTTL   = 7 * 24 * time.Hour
)

// Identity is the authenticated caller attached to each request.
type Identity struct {
	UserID string
	Role   string
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies credentials and issues HS256-signed tokens.
type Service struct {
	users  store.UserStore
	secret []byte
}

// NewService builds the auth service over a user store.
func NewService(users store.UserStore, secret string) *Service {
	return &Service{users: users, secret: []byte(secret)}
}

// Register creates a user from a raw email/password pair and returns the
// new user id with a fresh token. The email is normalized before the
// uniqueness check; the store's unique index is the final authority.
func (s *Service) Register(ctx context.Context, email, password string) (string, string, error) {
	if email == "" || password == "" {
		return "", "", ErrCredentialsRequired
	}
	if !emailRe.MatchString(email) {
		return "", "", ErrInvalidEmail
	}
	if !strongPassword(password) {
		return "", "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Email:        NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", "", ErrEmailTaken
		}
		return "", "", err
	}

	token, err := s.IssueToken(u.ID, u.Role)
	if err != nil {
		return "", "", err
	}
	return u.ID, token, nil
}

// Login verifies a credential pair. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	if email == "" || password == "" {
		return "", "", ErrCredentialsRequired
	}

	u, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(u.ID, u.Role)
	if err != nil {
		return "", "", err
	}
	return u.ID, token, nil
}

// IssueToken signs a 7-day identity token for the user.
func (s *Service) IssueToken(userID, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken parses and validates a token, returning the identity it
// carries. Expiry is reported distinctly from other validation failures.
func (s *Service) VerifyToken(raw string) (*Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// TokenTTL exposes the token lifetime for cookie expiry alignment.
func (s *Service) TokenTTL() time.Duration {
	return tokenTTL
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// strongPassword requires at least 8 characters with both a letter and
// a digit.
func strongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
