package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// AppointmentService owns the booking state machine.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	accounts     ports.AccountRepository
	log          zerolog.Logger
	now          func() time.Time
}

func NewAppointmentService(appointments ports.AppointmentRepository, accounts ports.AccountRepository, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{appointments: appointments, accounts: accounts, log: log, now: time.Now}
}

// Book creates a pending appointment from actor to an active veterinarian.
func (s *AppointmentService) Book(ctx context.Context, actor *domain.Account, in ports.BookInput) (*domain.Appointment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateWindow(in.StartsAt, in.EndsAt, in.Reason); err != nil {
		return nil, err
	}
	if in.VeterinarianID == actor.ID {
		return nil, fmt.Errorf("%w: cannot book an appointment with yourself", domain.ErrInvalidTarget)
	}
	if err := s.requireVeterinarian(ctx, in.VeterinarianID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appt := &domain.Appointment{
		ID:             uuid.NewString(),
		RequesterID:    actor.ID,
		VeterinarianID: in.VeterinarianID,
		StartsAt:       in.StartsAt.UTC(),
		EndsAt:         in.EndsAt.UTC(),
		Reason:         strings.TrimSpace(in.Reason),
		Status:         domain.AppointmentPending,
		History:        []domain.StatusChange{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("requester_id", appt.RequesterID).
		Str("veterinarian_id", appt.VeterinarianID).
		Msg("appointment booked")
	return appt, nil
}

// UpdateStatus moves the appointment to next. Only the assigned veterinarian
// may call it. The write is conditional on the status read here, so a
// concurrent transition makes this call fail with domain.ErrConflict.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor *domain.Account, id string, next domain.AppointmentStatus) (*domain.Appointment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if _, ok := domain.ParseAppointmentStatus(string(next)); !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, next)
	}

	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != appt.VeterinarianID {
		return nil, fmt.Errorf("%w: only the assigned veterinarian may change the status", domain.ErrForbidden)
	}
	if !appt.Status.CanTransitionTo(next) {
		if appt.Status.IsTerminal() {
			return nil, fmt.Errorf("%w: appointment is already %s", domain.ErrIllegalTransition, appt.Status)
		}
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, appt.Status, next)
	}

	updated, err := s.appointments.TransitionStatus(ctx, id, appt.Status, next, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.log.Warn().Str("appointment_id", id).Str("from", string(appt.Status)).Str("to", string(next)).Msg("appointment transition lost race")
		}
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", id).
		Str("from", string(appt.Status)).
		Str("to", string(next)).
		Msg("appointment status changed")
	return updated, nil
}

// Get returns an appointment to one of its participants or an admin.
func (s *AppointmentService) Get(ctx context.Context, actor *domain.Account, id string) (*domain.Appointment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.ID) && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: not a participant", domain.ErrForbidden)
	}
	return appt, nil
}

func (s *AppointmentService) ListMine(ctx context.Context, actor *domain.Account) ([]*domain.Appointment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.appointments.ListByRequester(ctx, actor.ID)
}

func (s *AppointmentService) ListAssigned(ctx context.Context, actor *domain.Account) ([]*domain.Appointment, error) {
	if err := RequireRole(actor, domain.RoleVeterinarian); err != nil {
		return nil, err
	}
	return s.appointments.ListByVeterinarian(ctx, actor.ID)
}

// Stats counts the caller's appointments per status from stored records.
func (s *AppointmentService) Stats(ctx context.Context, actor *domain.Account) (domain.AppointmentStats, error) {
	if err := RequireRole(actor, domain.RoleVeterinarian); err != nil {
		return domain.AppointmentStats{}, err
	}
	counts, err := s.appointments.CountByStatus(ctx, actor.ID)
	if err != nil {
		return domain.AppointmentStats{}, err
	}
	return domain.NewAppointmentStats(counts), nil
}

func (s *AppointmentService) requireVeterinarian(ctx context.Context, id string) error {
	return requireActiveRole(ctx, s.accounts, id, domain.RoleVeterinarian)
}

// requireActiveRole fails with domain.ErrInvalidTarget unless id names an
// active account holding role.
func requireActiveRole(ctx context.Context, accounts ports.AccountRepository, id string, role domain.Role) error {
	target, err := accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: account %s not found", domain.ErrInvalidTarget, id)
		}
		return err
	}
	if target.Role != role || !target.Active {
		return fmt.Errorf("%w: account %s is not an active %s", domain.ErrInvalidTarget, id, role)
	}
	return nil
}
