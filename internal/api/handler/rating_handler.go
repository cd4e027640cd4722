package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

type RatingHandler struct {
	ratings ports.RatingService
}

func NewRatingHandler(ratings ports.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type ratingRequest struct {
	Score   int    `json:"score" validate:"gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// Create records the calling farmer's rating of a veterinarian.
//
// @Summary      Rate a veterinarian
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Veterinarian id"
// @Param        body  body      ratingRequest  true  "Score and comment"
// @Success      201   {object}  domain.Rating
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/veterinarians/{id}/ratings [post]
func (h *RatingHandler) Create(c echo.Context) error {
	var req ratingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rating, err := h.ratings.Create(c.Request().Context(), actor(c), c.Param("id"), req.Score, req.Comment)
	if err != nil {
		return err
	}
	metrics.RatingsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, rating)
}

// ListForSubject returns a veterinarian's ratings with the current average.
//
// @Summary      Veterinarian ratings
// @Tags         ratings
// @Produce      json
// @Param        id   path      string  true  "Veterinarian id"
// @Success      200  {object}  domain.RatingSummary
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /v1/veterinarians/{id}/ratings [get]
func (h *RatingHandler) ListForSubject(c echo.Context) error {
	summary, err := h.ratings.ListForSubject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Mine returns the caller's rating of a veterinarian.
//
// @Summary      My rating of a veterinarian
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Veterinarian id"
// @Success      200  {object}  domain.Rating
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/veterinarians/{id}/ratings/mine [get]
func (h *RatingHandler) Mine(c echo.Context) error {
	rating, err := h.ratings.MineForSubject(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rating)
}

// Update changes the caller's own rating.
//
// @Summary      Update rating
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Rating id"
// @Param        body  body      ratingRequest  true  "Score and comment"
// @Success      200   {object}  domain.Rating
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /v1/ratings/{id} [put]
func (h *RatingHandler) Update(c echo.Context) error {
	var req ratingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rating, err := h.ratings.Update(c.Request().Context(), actor(c), c.Param("id"), req.Score, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rating)
}

// Delete removes a rating. The rater or an admin may delete it.
//
// @Summary      Delete rating
// @Tags         ratings
// @Security     BearerAuth
// @Param        id   path      string  true  "Rating id"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/ratings/{id} [delete]
func (h *RatingHandler) Delete(c echo.Context) error {
	if err := h.ratings.Delete(c.Request().Context(), actor(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
