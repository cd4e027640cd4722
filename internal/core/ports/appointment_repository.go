package ports

import (
	"context"
	"time"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// AppointmentRepository defines persistence for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// ListByRequester and ListByVeterinarian return newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.Appointment, error)
	ListByVeterinarian(ctx context.Context, veterinarianID string) ([]*domain.Appointment, error)

	// TransitionStatus sets status to `to` only if the stored status still
	// equals `from`, appending a history entry in the same write. Returns
	// domain.ErrConflict when the stored status no longer matches.
	TransitionStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, at time.Time) (*domain.Appointment, error)

	CountByStatus(ctx context.Context, veterinarianID string) (map[domain.AppointmentStatus]int64, error)
	// DeleteByAccount removes appointments where accountID is requester or veterinarian.
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
