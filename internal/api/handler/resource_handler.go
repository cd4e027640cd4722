package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

// ResourceHandler serves CRUD for one catalog kind. decode turns the request
// body into a fresh resource; it never copies id or owner from the payload.
type ResourceHandler[T domain.Resource] struct {
	kind    domain.ResourceKind
	service ports.ResourceService[T]
	decode  func(c echo.Context) (T, error)
}

func NewResourceHandler[T domain.Resource](kind domain.ResourceKind, service ports.ResourceService[T], decode func(c echo.Context) (T, error)) *ResourceHandler[T] {
	return &ResourceHandler[T]{kind: kind, service: service, decode: decode}
}

func NewCattleHandler(service ports.ResourceService[*domain.Cattle]) *ResourceHandler[*domain.Cattle] {
	return NewResourceHandler(domain.KindCattle, service, decodeCattle)
}

func NewProductHandler(service ports.ResourceService[*domain.Product]) *ResourceHandler[*domain.Product] {
	return NewResourceHandler(domain.KindProduct, service, decodeProduct)
}

func NewNewsHandler(service ports.ResourceService[*domain.NewsItem]) *ResourceHandler[*domain.NewsItem] {
	return NewResourceHandler(domain.KindNews, service, decodeNews)
}

// List returns catalog entries. owner=me restricts the listing to the
// caller's own entries and needs a credential.
func (h *ResourceHandler[T]) List(c echo.Context) error {
	filter := domain.ResourceFilter{
		OwnerID:  c.QueryParam("owner"),
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
	}
	if filter.OwnerID == "me" {
		a := actor(c)
		if a == nil {
			return domain.ErrUnauthenticated
		}
		filter.OwnerID = a.ID
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrValidation)
		}
		filter.Limit = n
	}

	items, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newList(items))
}

func (h *ResourceHandler[T]) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T]) Create(c echo.Context) error {
	r, err := h.decode(c)
	if err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), actor(c), r)
	if err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(string(h.kind), "create").Inc()
	return c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler[T]) Replace(c echo.Context) error {
	r, err := h.decode(c)
	if err != nil {
		return err
	}
	updated, err := h.service.Replace(c.Request().Context(), actor(c), c.Param("id"), r)
	if err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(string(h.kind), "replace").Inc()
	return c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), actor(c), c.Param("id")); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues(string(h.kind), "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
