package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/transport/httpserver/dto"
)

// MorningSaleLister lists the stores running a deal right now.
type MorningSaleLister interface {
	ListMorningSales(ctx context.Context) ([]domain.MorningSale, error)
}

// DealHandler handles deal listing requests.
type DealHandler struct {
	sales  MorningSaleLister
	logger *zap.Logger
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(sales MorningSaleLister, logger *zap.Logger) *DealHandler {
	return &DealHandler{sales: sales, logger: logger}
}

// MorningSales handles GET /api/v1/stores/morning-sale
func (h *DealHandler) MorningSales(c *fiber.Ctx) error {
	sales, err := h.sales.ListMorningSales(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.FromMorningSales(sales)))
}
