package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/auth"
	"github.com/anujdalvisuperk/calling-assistant/internal/rbac"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("profile not found")
)

// Service owns signup/login and role lookup.
//
// New signups default to the caller role; admins are promoted out of band
// (SQL or a future management endpoint), never via self-service.
type Service struct {
	repo   Repository
	tokens *auth.Manager
	clock  func() time.Time
}

func NewService(repo Repository, tokens *auth.Manager) *Service {
	return &Service{repo: repo, tokens: tokens, clock: time.Now}
}

type SignUpRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	Profile Profile
	Tokens  auth.TokenPair
}

func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (Profile, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return Profile{}, ErrInvalidArgument
	}
	if len(req.Password) < 8 {
		return Profile{}, ErrInvalidArgument
	}

	if _, ok, err := s.repo.FindByEmail(ctx, email); err != nil {
		return Profile{}, err
	} else if ok {
		return Profile{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}

	p := Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         rbac.RoleCaller,
		Active:       true,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	p, ok, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(s.clock(), p.ID, p.Email, p.Role)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Profile: p, Tokens: pair}, nil
}

// Role resolves the stored role for a profile id.
func (s *Service) Role(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidArgument
	}
	p, ok, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	return p.Role, nil
}

// Team lists active profiles, ordered deterministically for squad selection.
func (s *Service) Team(ctx context.Context) ([]Profile, error) {
	return s.repo.ListActive(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
