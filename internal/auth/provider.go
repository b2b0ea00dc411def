// Package auth is the identity provider: password accounts stored in the
// users table and stateless HS256 session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrWeakCredentials    = errors.New("unacceptable email or password")
)

const minPasswordLength = 6

// Identity is an authenticated account and its session token
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token,omitempty"`
}

// Users is the account storage the provider needs
type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Provider handles sign-up, sign-in and session tokens
type Provider struct {
	users  Users
	secret []byte
	ttl    time.Duration
	cost   int
	log    *logrus.Logger
}

// NewProvider initializes a new identity provider
func NewProvider(users Users, secret string, ttl time.Duration, log *logrus.Logger) *Provider {
	return &Provider{users: users, secret: []byte(secret), ttl: ttl, cost: bcrypt.DefaultCost, log: log}
}

// SignUp creates an account and returns its first session
func (p *Provider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return Identity{}, fmt.Errorf("%w: invalid email address %q", ErrWeakCredentials, email)
	}
	if len(password) < minPasswordLength {
		return Identity{}, fmt.Errorf("%w: password must be at least %d characters", ErrWeakCredentials, minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{ID: models.NewID(), Email: email, PasswordHash: string(hashed)}
	if err := p.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, err
	}

	p.log.Infof("User registered: %s", user.Email)
	return p.issue(user)
}

// SignIn verifies the password and returns a new session
func (p *Provider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	user, err := p.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	p.log.Infof("User logged in: %s", user.Email)
	return p.issue(user)
}

// SignOut ends the session. Tokens are stateless, so nothing is revoked server side.
func (p *Provider) SignOut(_ context.Context, userID string) error {
	p.log.Infof("User signed out: %s", userID)
	return nil
}

// DeleteAccount removes the identity record
func (p *Provider) DeleteAccount(ctx context.Context, userID string) error {
	if err := p.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	p.log.Infof("User deleted: %s", userID)
	return nil
}

// Verify checks a session token and returns the identity it belongs to
func (p *Provider) Verify(token string) (Identity, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || c.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.Subject, Email: c.Email, Token: token}, nil
}

func (p *Provider) issue(user *models.User) (Identity, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return Identity{UserID: user.ID, Email: user.Email, Token: signed}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
