package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

// Request bodies for catalog writes. None of them carries id or owner_id.

type cattleRequest struct {
	Title       string  `json:"title" validate:"required,max=160"`
	Breed       string  `json:"breed" validate:"required,max=80"`
	Gender      string  `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	AgeMonths   int     `json:"age_months" validate:"gte=0"`
	WeightKg    float64 `json:"weight_kg" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Location    string  `json:"location,omitempty" validate:"max=120"`
	Description string  `json:"description,omitempty" validate:"max=4000"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=available reserved sold"`
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,max=160"`
	Category    string  `json:"category" validate:"required,max=80"`
	Description string  `json:"description,omitempty" validate:"max=4000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Unit        string  `json:"unit,omitempty" validate:"max=32"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type newsRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Summary   string `json:"summary,omitempty" validate:"max=500"`
	Body      string `json:"body" validate:"required"`
	Category  string `json:"category,omitempty" validate:"max=80"`
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url"`
}

func decodeCattle(c echo.Context) (*domain.Cattle, error) {
	var req cattleRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return &domain.Cattle{
		Title:       req.Title,
		Breed:       req.Breed,
		Gender:      req.Gender,
		AgeMonths:   req.AgeMonths,
		WeightKg:    req.WeightKg,
		Price:       req.Price,
		Location:    req.Location,
		Description: req.Description,
		Status:      domain.CattleStatus(req.Status),
	}, nil
}

func decodeProduct(c echo.Context) (*domain.Product, error) {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return &domain.Product{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
	}, nil
}

func decodeNews(c echo.Context) (*domain.NewsItem, error) {
	var req newsRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	return &domain.NewsItem{
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		Category:  req.Category,
		SourceURL: req.SourceURL,
	}, nil
}
