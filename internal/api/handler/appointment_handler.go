package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

type AppointmentHandler struct {
	appointments ports.AppointmentService
}

func NewAppointmentHandler(appointments ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type bookRequest struct {
	VeterinarianID string    `json:"veterinarian_id" validate:"required"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	Reason         string    `json:"reason" validate:"required,max=1000"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// Book requests an appointment with a veterinarian.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Booking request"
// @Success      201   {object}  domain.Appointment
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req bookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	appt, err := h.appointments.Book(c.Request().Context(), actor(c), ports.BookInput{
		VeterinarianID: req.VeterinarianID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Reason:         req.Reason,
	})
	if err != nil {
		return err
	}
	metrics.AppointmentsBookedTotal.Inc()
	return c.JSON(http.StatusCreated, appt)
}

// UpdateStatus changes an appointment's status. Only the assigned
// veterinarian may call it.
//
// @Summary      Change appointment status
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Appointment id"
// @Param        body  body      statusRequest  true  "Target status"
// @Success      200   {object}  domain.Appointment
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	next := domain.AppointmentStatus(req.Status)
	appt, err := h.appointments.UpdateStatus(c.Request().Context(), actor(c), c.Param("id"), next)
	metrics.AppointmentTransitionsTotal.WithLabelValues(string(next), transitionResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "illegal"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

// Get returns one appointment to a participant or an admin.
//
// @Summary      Get appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment id"
// @Success      200  {object}  domain.Appointment
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.appointments.Get(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

// ListMine returns appointments the caller requested, newest first.
//
// @Summary      My appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Appointment]
// @Router       /v1/appointments/mine [get]
func (h *AppointmentHandler) ListMine(c echo.Context) error {
	items, err := h.appointments.ListMine(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(items))
}

// ListAssigned returns appointments assigned to the calling veterinarian.
//
// @Summary      Assigned appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.Appointment]
// @Failure      403  {object}  ErrorResponse
// @Router       /v1/appointments/assigned [get]
func (h *AppointmentHandler) ListAssigned(c echo.Context) error {
	items, err := h.appointments.ListAssigned(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(items))
}

// Stats returns the calling veterinarian's appointment counts per status.
//
// @Summary      Appointment stats
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AppointmentStats
// @Failure      403  {object}  ErrorResponse
// @Router       /v1/appointments/stats [get]
func (h *AppointmentHandler) Stats(c echo.Context) error {
	stats, err := h.appointments.Stats(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
