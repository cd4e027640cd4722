package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login and logout.
type AuthService struct {
	accounts    ports.AccountRepository
	tokens      *TokenIssuer
	revocations ports.RevocationStore
	log         zerolog.Logger
	hashCost    int
	now         func() time.Time
}

func NewAuthService(accounts ports.AccountRepository, tokens *TokenIssuer, revocations ports.RevocationStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		accounts:    accounts,
		tokens:      tokens,
		revocations: revocations,
		log:         log,
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
}

// Register opens a non-admin account and mints its first credential.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}
	if role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: role %s cannot be self-registered", domain.ErrValidation, role)
	}

	if err := in.Profile.Validate(role); err != nil {
		return nil, err
	}

	account, err := s.newAccount(in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}
	in.Profile.Name = nil
	in.Profile.Apply(account)

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", account.ID).Str("role", string(role)).Msg("account registered")

	return s.issue(account)
}

// Login checks credentials. Unknown email, wrong password and inactive
// account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidLogin
	}

	account, err := s.accounts.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidLogin
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidLogin
	}
	if !account.Active {
		return nil, domain.ErrInvalidLogin
	}

	return s.issue(account)
}

// Logout revokes the presented credential until it would have expired.
func (s *AuthService) Logout(ctx context.Context, id *domain.Identity) error {
	if id == nil || id.Account == nil {
		return domain.ErrUnauthenticated
	}
	if s.revocations == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("account_id", id.Account.ID).Msg("credential revoked")
	return nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Account, error) {
	existing, err := s.accounts.FindByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("ensure admin: %w: %s belongs to a %s", domain.ErrAccountExists, existing.Email, existing.Role)
		}
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	account, err := s.newAccount(name, email, password, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return s.accounts.FindByEmail(ctx, account.Email)
		}
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	s.log.Info().Str("account_id", account.ID).Msg("admin account created")
	return account, nil
}

func (s *AuthService) newAccount(name, email, password string, role domain.Role) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: name and a valid email are required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return &domain.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *AuthService) issue(account *domain.Account) (*ports.AuthResult, error) {
	token, claims, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, Account: account}, nil
}
