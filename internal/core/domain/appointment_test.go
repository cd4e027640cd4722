package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAppointmentStatus_TransitionTable(t *testing.T) {
	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		AppointmentPending:   {AppointmentConfirmed: true, AppointmentCancelled: true},
		AppointmentConfirmed: {AppointmentCompleted: true, AppointmentCancelled: true},
		AppointmentCancelled: {},
		AppointmentCompleted: {},
	}

	for _, from := range AppointmentStatuses {
		for _, to := range AppointmentStatuses {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestAppointmentStatus_Terminal(t *testing.T) {
	cases := map[AppointmentStatus]bool{
		AppointmentPending:   false,
		AppointmentConfirmed: false,
		AppointmentCancelled: true,
		AppointmentCompleted: true,
	}
	for st, want := range cases {
		if st.IsTerminal() != want {
			t.Errorf("%s: expected terminal=%v", st, want)
		}
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	if st, ok := ParseAppointmentStatus(" Confirmed "); !ok || st != AppointmentConfirmed {
		t.Fatalf("expected confirmed, got %q %v", st, ok)
	}
	if _, ok := ParseAppointmentStatus("reopened"); ok {
		t.Fatal("unknown status must not parse")
	}
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := ValidateWindow(start, start.Add(time.Hour), "vaccination"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateWindow(start, start, "vaccination"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty window: expected ErrValidation, got %v", err)
	}
	if err := ValidateWindow(start, start.Add(time.Hour), "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank reason: expected ErrValidation, got %v", err)
	}
	if err := ValidateWindow(time.Time{}, start, "x"); !errors.Is(err, ErrValidation) {
		t.Errorf("zero start: expected ErrValidation, got %v", err)
	}
}

func TestNewAppointmentStats_ZeroFills(t *testing.T) {
	stats := NewAppointmentStats(map[AppointmentStatus]int64{
		AppointmentPending:   2,
		AppointmentCompleted: 3,
	})
	if stats.Total != 5 {
		t.Errorf("expected total 5, got %d", stats.Total)
	}
	if len(stats.ByStatus) != len(AppointmentStatuses) {
		t.Errorf("expected every status reported, got %v", stats.ByStatus)
	}
	if stats.ByStatus[AppointmentCancelled] != 0 {
		t.Errorf("expected 0 cancelled, got %d", stats.ByStatus[AppointmentCancelled])
	}
}
