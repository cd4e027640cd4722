package ports

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// RegisterInput carries the data needed to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Profile  domain.ProfileUpdate
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// AuthService handles credentials.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, id *domain.Identity) error
}

// AccountService handles profile reads and edits.
type AccountService interface {
	UpdateProfile(ctx context.Context, actor *domain.Account, update domain.ProfileUpdate) (*domain.Account, error)
	PublicProfile(ctx context.Context, id string) (*domain.Account, error)
	ListVeterinarians(ctx context.Context) ([]*domain.Account, error)
}

// IdentityResolver verifies a raw bearer token.
type IdentityResolver interface {
	Resolve(ctx context.Context, rawToken string) (*domain.Identity, error)
}

// BookInput carries a booking request.
type BookInput struct {
	VeterinarianID string
	StartsAt       time.Time
	EndsAt         time.Time
	Reason         string
}

// AppointmentService is the appointment lifecycle manager.
type AppointmentService interface {
	Book(ctx context.Context, actor *domain.Account, in BookInput) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, actor *domain.Account, id string, next domain.AppointmentStatus) (*domain.Appointment, error)
	Get(ctx context.Context, actor *domain.Account, id string) (*domain.Appointment, error)
	ListMine(ctx context.Context, actor *domain.Account) ([]*domain.Appointment, error)
	ListAssigned(ctx context.Context, actor *domain.Account) ([]*domain.Appointment, error)
	Stats(ctx context.Context, actor *domain.Account) (domain.AppointmentStats, error)
}

// RatingService is the rating ledger.
type RatingService interface {
	Create(ctx context.Context, actor *domain.Account, subjectID string, score int, comment string) (*domain.Rating, error)
	Update(ctx context.Context, actor *domain.Account, id string, score int, comment string) (*domain.Rating, error)
	ListForSubject(ctx context.Context, subjectID string) (domain.RatingSummary, error)
	MineForSubject(ctx context.Context, actor *domain.Account, subjectID string) (*domain.Rating, error)
	Delete(ctx context.Context, actor *domain.Account, id string) error
}

// ResourceService is the catalog service for one resource kind.
type ResourceService[T domain.Resource] interface {
	Create(ctx context.Context, actor *domain.Account, r T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, filter domain.ResourceFilter) ([]T, error)
	Replace(ctx context.Context, actor *domain.Account, id string, r T) (T, error)
	Delete(ctx context.Context, actor *domain.Account, id string) error
}

// AdminService is the moderation surface.
type AdminService interface {
	ListAccounts(ctx context.Context, actor *domain.Account, filter AccountFilter) ([]*domain.Account, error)
	SetAccountActive(ctx context.Context, actor *domain.Account, id string, active bool) error
	DeleteAccount(ctx context.Context, actor *domain.Account, id string) error
	Dashboard(ctx context.Context, actor *domain.Account) (*domain.DashboardStats, error)
}
