package auth

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v3"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenKey = "sessionToken"
	shopKey  = "shop"
)

// DefaultLaunchMaxAge is used when Config.LaunchMaxAge is zero.
const DefaultLaunchMaxAge = time.Hour

// launch timestamps slightly ahead of the local clock are tolerated
const clockSkew = time.Minute

var ErrNoShop = errors.New("no authenticated shop")

// Config holds the app credentials issued by Shopify.
type Config struct {
	APIKey    string
	APISecret string
	// ShopDomain is the only shop requests are accepted for.
	ShopDomain string
	// LaunchMaxAge bounds the age of a signed launch URL.
	LaunchMaxAge time.Duration
	// DevMode lets every request through without checks.
	DevMode bool
	// Now replaces time.Now in tests.
	Now func() time.Time
}

type verifier struct {
	app    goshopify.App
	shop   string
	maxAge time.Duration
	now    func() time.Time
}

// New returns middleware accepting either a Shopify session token in the
// Authorization header or, for GET requests only, a fresh launch URL signed
// with the app secret. Both must name the configured shop.
func New(cfg Config) fiber.Handler {
	if cfg.DevMode {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	v := verifier{
		app:    goshopify.App{ApiKey: cfg.APIKey, ApiSecret: cfg.APISecret},
		shop:   cfg.ShopDomain,
		maxAge: cfg.LaunchMaxAge,
		now:    cfg.Now,
	}
	if v.maxAge <= 0 {
		v.maxAge = DefaultLaunchMaxAge
	}
	if v.now == nil {
		v.now = time.Now
	}

	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(cfg.APISecret),
		SigningMethod: "HS256",
		ContextKey:    tokenKey,
		Filter: func(c *fiber.Ctx) bool {
			if !v.signedLaunch(c) {
				return false
			}
			c.Locals(shopKey, goshopify.ShopFullName(c.Query("shop")))
			return true
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			claims, ok := sessionClaims(c)
			if !ok || !claims.VerifyAudience(cfg.APIKey, true) {
				return unauthorized(c)
			}
			dest, _ := claims["dest"].(string)
			if !v.ownShop(stripScheme(dest)) {
				return unauthorized(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

// signedLaunch reports whether a GET request carries a valid Shopify hmac for
// the configured shop with a timestamp younger than maxAge.
func (v verifier) signedLaunch(c *fiber.Ctx) bool {
	if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
		return false
	}
	shop, ts := c.Query("shop"), c.Query("timestamp")
	if c.Query("hmac") == "" || shop == "" || ts == "" {
		return false
	}
	if !v.ownShop(shop) {
		return false
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := v.now().Sub(time.Unix(sec, 0))
	if age > v.maxAge || age < -clockSkew {
		return false
	}

	u, err := url.Parse(c.OriginalURL())
	if err != nil {
		return false
	}
	ok, err := v.app.VerifyAuthorizationURL(u)
	return err == nil && ok
}

func (v verifier) ownShop(shop string) bool {
	if strings.TrimSpace(shop) == "" {
		return false
	}
	return strings.EqualFold(goshopify.ShopFullName(shop), goshopify.ShopFullName(v.shop))
}

func stripScheme(dest string) string {
	return strings.TrimPrefix(strings.TrimPrefix(dest, "https://"), "http://")
}

func sessionClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || tok == nil {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

// ShopFromCtx returns the shop domain the request was authenticated for.
func ShopFromCtx(c *fiber.Ctx) (string, error) {
	if claims, ok := sessionClaims(c); ok {
		if dest, ok := claims["dest"].(string); ok && dest != "" {
			return stripScheme(dest), nil
		}
	}
	if shop, ok := c.Locals(shopKey).(string); ok && shop != "" {
		return shop, nil
	}
	return "", ErrNoShop
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}
