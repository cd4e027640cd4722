package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type profileRequest struct {
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Location       *string `json:"location,omitempty" validate:"omitempty,max=120"`
	FarmName       *string `json:"farm_name,omitempty" validate:"omitempty,max=120"`
	ClinicName     *string `json:"clinic_name,omitempty" validate:"omitempty,max=120"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=120"`
	ShopName       *string `json:"shop_name,omitempty" validate:"omitempty,max=120"`
}

func (p profileRequest) toUpdate(name *string) domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:           name,
		Phone:          p.Phone,
		Location:       p.Location,
		FarmName:       p.FarmName,
		ClinicName:     p.ClinicName,
		Specialization: p.Specialization,
		ShopName:       p.ShopName,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=farmer buyer veterinarian seller"`
	profileRequest
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *domain.Account `json:"account"`
}

func newAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, Account: res.Account}
}

// Register creates a new account and returns its first credential.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Profile:  req.profileRequest.toUpdate(nil),
	})
	if err != nil {
		return err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues(string(res.Account.Role)).Inc()
	return c.JSON(http.StatusCreated, newAuthResponse(res))
}

// Login authenticates an account and returns a credential.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAuthResponse(res))
}

// Logout revokes the credential used for this request.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  ErrorResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), identity(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
