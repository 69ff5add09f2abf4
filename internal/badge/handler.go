package badge

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/product-badges/internal/auth"
	"github.com/wichananm65/product-badges/internal/banner"
	"github.com/wichananm65/product-badges/internal/logging"
	"github.com/wichananm65/product-badges/internal/shopify"
)

type Handler struct {
	service           *Service
	redirectOnSuccess bool
	log               *zap.Logger
}

type badgeRequest struct {
	ProductID string    `json:"productId"`
	Badge     Selection `json:"badge"`
}

type actionResponse struct {
	Status int `json:"status"`
	banner.Banner
}

func NewHandler(service *Service, redirectOnSuccess bool, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, redirectOnSuccess: redirectOnSuccess, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/badge", h.saveBadge)
	// form action of the index page
	app.Post("/app", h.submitForm)
}

// saveBadge is the JSON endpoint: {productId, badge} where badge is a string
// or a list of strings.
func (h *Handler) saveBadge(c *fiber.Ctx) error {
	req := new(badgeRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": banner.MsgMissing})
	}

	if _, err := h.service.Assign(c.UserContext(), req.ProductID, req.Badge); err != nil {
		b, status := h.classify(c, err)
		return c.Status(status).JSON(fiber.Map{"error": b.Message})
	}
	return c.JSON(fiber.Map{"success": banner.MsgSaved})
}

// submitForm answers the index page. Outcomes are always reported as a
// banner with status 200, except the optional redirect on success.
func (h *Handler) submitForm(c *fiber.Ctx) error {
	req := parseForm(c)

	if _, err := h.service.Assign(c.UserContext(), req.ProductID, req.Badge); err != nil {
		b, _ := h.classify(c, err)
		return c.JSON(actionResponse{Status: fiber.StatusOK, Banner: b})
	}

	if h.redirectOnSuccess {
		if id, err := shopify.NumericID(strings.TrimSpace(req.ProductID)); err == nil {
			target := "/app/product/" + id
			if q := string(c.Request().URI().QueryString()); q != "" {
				target += "?" + q
			}
			return c.Redirect(target, fiber.StatusSeeOther)
		}
	}
	return c.JSON(actionResponse{Status: fiber.StatusOK, Banner: banner.Success(banner.MsgSaved)})
}

// parseForm reads either a "data" field holding the JSON payload or plain
// productId and repeated badge fields.
func parseForm(c *fiber.Ctx) badgeRequest {
	var req badgeRequest
	if raw := c.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return badgeRequest{}
		}
		return req
	}

	req.ProductID = c.FormValue("productId")
	if form, err := c.MultipartForm(); err == nil {
		req.Badge = form.Value["badge"]
		return req
	}
	for _, v := range c.Request().PostArgs().PeekMulti("badge") {
		req.Badge = append(req.Badge, string(v))
	}
	return req
}

// classify maps an Assign error to the banner shown to the merchant and the
// status the JSON endpoint answers with.
func (h *Handler) classify(c *fiber.Ctx, err error) (banner.Banner, int) {
	var (
		invalid    *InvalidBadgeError
		userErrors shopify.UserErrors
	)
	switch {
	case errors.Is(err, ErrMissingInput):
		return banner.Critical(banner.MsgMissing), fiber.StatusBadRequest
	case errors.As(err, &invalid):
		return banner.Critical("Unknown badge: " + invalid.Value), fiber.StatusBadRequest
	case errors.Is(err, ErrTooManyBadges):
		return banner.Critical("Select a single badge"), fiber.StatusBadRequest
	case errors.As(err, &userErrors):
		h.log.Warn("metafieldsSet rejected", h.fields(c, zap.Error(err))...)
		return banner.Critical(userErrors.First()), fiber.StatusBadRequest
	default:
		h.log.Error("badge save failed", h.fields(c, zap.Error(err))...)
		return banner.Critical(banner.MsgFailed), fiber.StatusInternalServerError
	}
}

func (h *Handler) fields(c *fiber.Ctx, extra ...zap.Field) []zap.Field {
	shop, _ := auth.ShopFromCtx(c)
	return append([]zap.Field{
		zap.String("request_id", logging.RequestID(c)),
		zap.String("shop", shop),
	}, extra...)
}
