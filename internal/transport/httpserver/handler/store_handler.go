package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/transport/httpserver/dto"
	"store-search-service/internal/validator"
)

// StoreFinder looks up a single store.
type StoreFinder interface {
	GetStore(ctx context.Context, storeID, userID string) (*domain.StoreSummary, error)
}

// FavoriteWriter adds and removes favorites.
type FavoriteWriter interface {
	Add(ctx context.Context, userID, storeID string) (bool, error)
	Remove(ctx context.Context, userID, storeID string) (bool, error)
}

// StoreHandler handles store detail and favorite requests.
type StoreHandler struct {
	stores    StoreFinder
	favorites FavoriteWriter
	validator *validator.Validator
	logger    *zap.Logger
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(stores StoreFinder, favorites FavoriteWriter, v *validator.Validator, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		stores:    stores,
		favorites: favorites,
		validator: v,
		logger:    logger,
	}
}

// GetByID handles GET /api/v1/stores/:id
func (h *StoreHandler) GetByID(c *fiber.Ctx) error {
	storeID, err := storeIDParam(c)
	if err != nil {
		return err
	}

	userID, err := userIDFrom(c, h.validator, false)
	if err != nil {
		return err
	}

	summary, err := h.stores.GetStore(c.UserContext(), storeID, userID)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.FromStoreSummary(summary)))
}

// AddFavorite handles POST /api/v1/stores/:id/favorite
func (h *StoreHandler) AddFavorite(c *fiber.Ctx) error {
	storeID, userID, err := h.favoriteTarget(c)
	if err != nil {
		return err
	}

	added, err := h.favorites.Add(c.UserContext(), userID, storeID)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.FavoriteResponse{StoreID: storeID, IsFavorite: true, Changed: added}))
}

// RemoveFavorite handles DELETE /api/v1/stores/:id/favorite
func (h *StoreHandler) RemoveFavorite(c *fiber.Ctx) error {
	storeID, userID, err := h.favoriteTarget(c)
	if err != nil {
		return err
	}

	removed, err := h.favorites.Remove(c.UserContext(), userID, storeID)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.FavoriteResponse{StoreID: storeID, IsFavorite: false, Changed: removed}))
}

func (h *StoreHandler) favoriteTarget(c *fiber.Ctx) (string, string, error) {
	storeID, err := storeIDParam(c)
	if err != nil {
		return "", "", err
	}

	userID, err := userIDFrom(c, h.validator, true)
	if err != nil {
		return "", "", err
	}

	return storeID, userID, nil
}

// storeIDParam returns the canonical form of the :id path parameter.
func storeIDParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if raw == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "store id is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid store id")
	}

	return id.String(), nil
}

// userIDFrom reads the caller identity header.
func userIDFrom(c *fiber.Ctx, v *validator.Validator, required bool) (string, error) {
	req := dto.UserRequest{UserID: strings.TrimSpace(c.Get(dto.UserIDHeader))}

	if req.UserID == "" && required {
		return "", fiber.NewError(fiber.StatusBadRequest, dto.UserIDHeader+" header is required")
	}
	if err := v.Validate(&req); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return req.UserID, nil
}
