// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/transport/httpserver/dto"
	"store-search-service/internal/validator"
)

// StoreSearcher runs store searches.
type StoreSearcher interface {
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
}

// FilterProvider supplies filter metadata.
type FilterProvider interface {
	GetFilters(ctx context.Context, params domain.FilterMetaParams) (*domain.FilterMeta, error)
}

// SearchHandler handles search-related HTTP requests.
type SearchHandler struct {
	searcher  StoreSearcher
	filters   FilterProvider
	validator *validator.Validator
	logger    *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher StoreSearcher, filters FilterProvider, v *validator.Validator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searcher:  searcher,
		filters:   filters,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/v1/search/stores
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	if err := h.validator.Validate(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	userID, err := userIDFrom(c, h.validator, false)
	if err != nil {
		return err
	}

	params, err := req.ToSearchParams(userID)
	if err != nil {
		return err
	}

	result, err := h.searcher.Search(c.UserContext(), params)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.FromSearchResult(result)))
}

// Filters handles GET /api/v1/search/filters
func (h *SearchHandler) Filters(c *fiber.Ctx) error {
	var req dto.FilterRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}

	if err := h.validator.Validate(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	meta, err := h.filters.GetFilters(c.UserContext(), req.ToFilterMetaParams())
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.FromFilterMeta(meta)))
}
