package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/product-badges/internal/shopify"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/products", h.getProducts)
	app.Get("/api/products/:id<int>", h.getProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not load products"})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	d, err := h.service.GetByNumericID(c.UserContext(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		case errors.Is(err, shopify.ErrInvalidID):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			h.log.Error("load product failed", zap.String("id", c.Params("id")), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not load product"})
		}
	}
	return c.JSON(d)
}
