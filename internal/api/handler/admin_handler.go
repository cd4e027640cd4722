package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ListAccounts returns accounts, optionally filtered by role and activity.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Role filter"
// @Param        active  query     bool    false  "Only active accounts"
// @Success      200     {object}  listResponse[domain.Account]
// @Failure      403     {object}  ErrorResponse
// @Router       /v1/admin/accounts [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	var filter ports.AccountFilter
	if raw := c.QueryParam("role"); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, raw)
		}
		filter.Role = role
	}
	filter.ActiveOnly = c.QueryParam("active") == "true"

	accounts, err := h.admin.ListAccounts(c.Request().Context(), actor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(accounts))
}

// SetActive deactivates or reactivates an account.
//
// @Summary      Set account activation
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string         true  "Account id"
// @Param        body  body  activeRequest  true  "Desired state"
// @Success      204
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/admin/accounts/{id}/active [patch]
func (h *AdminHandler) SetActive(c echo.Context) error {
	var req activeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.admin.SetAccountActive(c.Request().Context(), actor(c), c.Param("id"), *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes an account with its resources, ratings and appointments.
//
// @Summary      Delete account
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Account id"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /v1/admin/accounts/{id} [delete]
func (h *AdminHandler) DeleteAccount(c echo.Context) error {
	if err := h.admin.DeleteAccount(c.Request().Context(), actor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard returns entity counts.
//
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DashboardStats
// @Failure      403  {object}  ErrorResponse
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.admin.Dashboard(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
