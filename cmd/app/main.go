package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/wichananm65/product-badges/internal/auth"
	"github.com/wichananm65/product-badges/internal/badge"
	"github.com/wichananm65/product-badges/internal/banner"
	"github.com/wichananm65/product-badges/internal/config"
	"github.com/wichananm65/product-badges/internal/logging"
	"github.com/wichananm65/product-badges/internal/page"
	"github.com/wichananm65/product-badges/internal/product"
	"github.com/wichananm65/product-badges/internal/shopify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client := shopify.NewClient(shopify.ClientConfig{
		ShopDomain:  cfg.ShopDomain,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
		Timeout:     cfg.RequestTimeout,
	}, logger)

	def := badge.NewDefinition(cfg.BadgeKey, cfg.BadgeFormat)
	productRepo := product.NewShopifyRepository(client, def)
	badgeRepo := badge.NewShopifyRepository(client)

	app, err := newApp(cfg, logger, productRepo, badgeRepo)
	if err != nil {
		logger.Fatal("build app", zap.Error(err))
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Addr),
			zap.String("graphql", client.Endpoint()),
			zap.String("metafield", def.Namespace+"."+def.Key),
			zap.String("type", def.Type()),
			zap.Bool("dev_mode", cfg.DevMode),
		)
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Error("listen", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// newApp wires handlers onto a fiber app. Everything under /app and /api
// requires a session token, or a signed launch URL for GET requests.
func newApp(cfg config.Config, logger *zap.Logger, productRepo product.Repository, badgeRepo badge.Repository) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "product-badges",
		ErrorHandler: errorHandler(logger),
	})
	app.Use(recover.New())
	app.Use(logging.Middleware(logger))
	setupCORS(app)

	def := badge.NewDefinition(cfg.BadgeKey, cfg.BadgeFormat)
	productService := product.NewService(productRepo)
	badgeService := badge.NewService(badgeRepo, def)

	pageHandler, err := page.NewHandler(productService, cfg.APIKey, logger)
	if err != nil {
		return nil, err
	}
	productHandler := product.NewHandler(productService, logger)
	badgeHandler := badge.NewHandler(badgeService, cfg.RedirectOnSuccess, logger)

	pageHandler.RegisterPublicRoutes(app)

	requireAuth := auth.New(auth.Config{
		APIKey:       cfg.APIKey,
		APISecret:    cfg.APISecret,
		ShopDomain:   cfg.ShopDomain,
		LaunchMaxAge: cfg.LaunchMaxAge,
		DevMode:      cfg.DevMode,
	})
	app.Use("/app", requireAuth)
	app.Use("/api", requireAuth)

	pageHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	badgeHandler.RegisterProtectedRoutes(app)

	return app, nil
}

func setupCORS(app *fiber.App) {
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", zap.String("request_id", logging.RequestID(c)), zap.Error(err))
			return c.Status(code).JSON(fiber.Map{"message": banner.MsgFailed})
		}
		return c.Status(code).JSON(fiber.Map{"message": err.Error()})
	}
}
