// Package page renders the embedded admin pages: the badge form and the
// product detail view.
package page

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/product-badges/internal/badge"
	"github.com/wichananm65/product-badges/internal/banner"
	"github.com/wichananm65/product-badges/internal/product"
	"github.com/wichananm65/product-badges/internal/shopify"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"badgeLabel": badge.Label,
}

type Handler struct {
	products *product.Service
	apiKey   string
	index    *template.Template
	detail   *template.Template
	log      *zap.Logger
}

// layout is what the shared head template reads.
type layout struct {
	Title string
	// APIKey loads App Bridge, which adds the session token to fetch calls.
	APIKey string
}

type indexData struct {
	layout
	Action        template.URL
	Products      []product.Product
	Options       []badge.Option
	FailedMessage string
}

type detailData struct {
	layout
	Back    template.URL
	Product product.Detail
}

// NewHandler parses the embedded templates. apiKey may be empty in dev mode,
// in which case App Bridge is not loaded.
func NewHandler(products *product.Service, apiKey string, log *zap.Logger) (*Handler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	index, err := template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, err
	}
	detail, err := template.New("product.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/product.html")
	if err != nil {
		return nil, err
	}
	return &Handler{products: products, apiKey: apiKey, index: index, detail: detail, log: log}, nil
}

// RegisterPublicRoutes only redirects; it serves no data.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(withQuery(c, "/app"), fiber.StatusFound)
	})
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/app", h.showIndex)
	app.Get("/app/product/:id<int>", h.showProduct)
}

func (h *Handler) showIndex(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).SendString(banner.MsgFailed)
	}

	return h.render(c, h.index, indexData{
		layout:        layout{Title: "Product badges", APIKey: h.apiKey},
		Action:        template.URL(withQuery(c, "/app")),
		Products:      products,
		Options:       badge.Options,
		FailedMessage: banner.MsgFailed,
	})
}

func (h *Handler) showProduct(c *fiber.Ctx) error {
	d, err := h.products.GetByNumericID(c.UserContext(), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			return c.Status(fiber.StatusNotFound).SendString("Product not found")
		case errors.Is(err, shopify.ErrInvalidID):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		default:
			h.log.Error("load product failed", zap.String("id", c.Params("id")), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).SendString(banner.MsgFailed)
		}
	}

	return h.render(c, h.detail, detailData{
		layout:  layout{Title: d.Title, APIKey: h.apiKey},
		Back:    template.URL(withQuery(c, "/app")),
		Product: d,
	})
}

func (h *Handler) render(c *fiber.Ctx, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		h.log.Error("render page failed", zap.String("template", t.Name()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString(banner.MsgFailed)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// withQuery keeps the launch query string (shop, host, hmac) on in-app links
// so signed requests stay verifiable.
func withQuery(c *fiber.Ctx, path string) string {
	if q := string(c.Request().URI().QueryString()); q != "" {
		return path + "?" + q
	}
	return path
}
