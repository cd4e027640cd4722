package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus represents the lifecycle state of a veterinary booking.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentConfirmed,
	AppointmentCancelled,
	AppointmentCompleted,
}

// appointmentTransitions is the full state machine. Statuses without an entry are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// ParseAppointmentStatus returns the status named by s, or false when unknown.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	st := AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AppointmentStatuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// StatusChange records one applied transition.
type StatusChange struct {
	From AppointmentStatus `json:"from" bson:"from"`
	To   AppointmentStatus `json:"to" bson:"to"`
	At   time.Time         `json:"at" bson:"at"`
}

// Appointment is a booking between a requester and a veterinarian.
// RequesterID and VeterinarianID are fixed at creation.
type Appointment struct {
	ID             string            `json:"id" bson:"_id"`
	RequesterID    string            `json:"requester_id" bson:"requester_id"`
	VeterinarianID string            `json:"veterinarian_id" bson:"veterinarian_id"`
	StartsAt       time.Time         `json:"starts_at" bson:"starts_at"`
	EndsAt         time.Time         `json:"ends_at" bson:"ends_at"`
	Reason         string            `json:"reason" bson:"reason"`
	Status         AppointmentStatus `json:"status" bson:"status"`
	History        []StatusChange    `json:"history" bson:"history"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

// IsParticipant reports whether accountID is the requester or the veterinarian.
func (a *Appointment) IsParticipant(accountID string) bool {
	return a.RequesterID == accountID || a.VeterinarianID == accountID
}

// ValidateWindow checks the requested time window and reason.
func ValidateWindow(startsAt, endsAt time.Time, reason string) error {
	if startsAt.IsZero() || endsAt.IsZero() {
		return fmt.Errorf("%w: starts_at and ends_at are required", ErrValidation)
	}
	if !endsAt.After(startsAt) {
		return fmt.Errorf("%w: ends_at must be after starts_at", ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}
	return nil
}

// AppointmentStats is the per-status breakdown for one veterinarian.
type AppointmentStats struct {
	ByStatus map[AppointmentStatus]int64 `json:"by_status"`
	Total    int64                       `json:"total"`
}

// NewAppointmentStats zero-fills every status from raw counts.
func NewAppointmentStats(counts map[AppointmentStatus]int64) AppointmentStats {
	stats := AppointmentStats{ByStatus: make(map[AppointmentStatus]int64, len(AppointmentStatuses))}
	for _, st := range AppointmentStatuses {
		n := counts[st]
		stats.ByStatus[st] = n
		stats.Total += n
	}
	return stats
}
