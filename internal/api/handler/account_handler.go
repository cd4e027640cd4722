package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type updateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	profileRequest
}

// Me returns the caller's own account.
//
// @Summary      Current account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	a := actor(c)
	if a == nil {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateMe edits the caller's profile. Role and email are not editable.
//
// @Summary      Update current profile
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /v1/me [patch]
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.accounts.UpdateProfile(c.Request().Context(), actor(c), req.profileRequest.toUpdate(req.Name))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ListVeterinarians returns every active veterinarian.
//
// @Summary      List veterinarians
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  listResponse[domain.Account]
// @Router       /v1/veterinarians [get]
func (h *AccountHandler) ListVeterinarians(c echo.Context) error {
	vets, err := h.accounts.ListVeterinarians(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(vets))
}

// PublicProfile returns an active account by id.
//
// @Summary      Public profile
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) PublicProfile(c echo.Context) error {
	a, err := h.accounts.PublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
