package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "app-key"
	testSecret = "app-secret"
	testShop   = "badge-demo"
)

var launchTime = time.Unix(1700000000, 0)

func testConfig() Config {
	return Config{
		APIKey:     testKey,
		APISecret:  testSecret,
		ShopDomain: testShop,
		Now:        func() time.Time { return launchTime.Add(5 * time.Minute) },
	}
}

func makeApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.All("/api/whoami", func(c *fiber.Ctx) error {
		shop, err := ShopFromCtx(c)
		if err != nil {
			return c.SendString("anonymous")
		}
		return c.SendString(shop)
	})
	return app
}

func sessionToken(t *testing.T, aud string) string {
	t.Helper()
	return sessionTokenFor(t, aud, "badge-demo.myshopify.com")
}

func sessionTokenFor(t *testing.T, aud, shop string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss":  "https://" + shop + "/admin",
		"dest": "https://" + shop,
		"aud":  aud,
		"sub":  "42",
		"exp":  time.Now().Add(time.Minute).Unix(),
		"nbf":  time.Now().Add(-time.Minute).Unix(),
		"iat":  time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// signedQuery returns a launch query string signed the way Shopify does it.
func signedQuery(shop string, at time.Time) string {
	message := "shop=" + shop + "&timestamp=" + strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(message))
	return message + "&hmac=" + hex.EncodeToString(mac.Sum(nil))
}

func do(t *testing.T, app *fiber.App, target, token string) (int, string) {
	t.Helper()
	return doMethod(t, app, "GET", target, token)
}

func doMethod(t *testing.T, app *fiber.App, method, target, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestNew_RejectsMissingToken(t *testing.T) {
	app := makeApp(testConfig())

	status, b := do(t, app, "/api/whoami", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, b, "unauthorized")
}

func TestNew_AcceptsSessionToken(t *testing.T) {
	app := makeApp(testConfig())

	status, b := do(t, app, "/api/whoami", sessionToken(t, testKey))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "badge-demo.myshopify.com", b)
}

func TestNew_RejectsTokenForOtherApp(t *testing.T) {
	app := makeApp(testConfig())

	status, _ := do(t, app, "/api/whoami", sessionToken(t, "another-app"))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNew_RejectsTokenWithWrongSecret(t *testing.T) {
	cfg := testConfig()
	cfg.APISecret = "rotated"
	app := makeApp(cfg)

	status, _ := do(t, app, "/api/whoami", sessionToken(t, testKey))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNew_RejectsSessionTokenForOtherShop(t *testing.T) {
	app := makeApp(testConfig())

	status, _ := do(t, app, "/api/whoami", sessionTokenFor(t, testKey, "someone-else.myshopify.com"))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNew_AcceptsFreshSignedLaunchURL(t *testing.T) {
	app := makeApp(testConfig())
	query := signedQuery("badge-demo.myshopify.com", launchTime)

	status, b := do(t, app, "/api/whoami?"+query, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "badge-demo.myshopify.com", b)

	tampered := strings.Replace(query, "timestamp=1700000000", "timestamp=1700000100", 1)
	status, _ = do(t, app, "/api/whoami?"+tampered, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNew_RejectsStaleSignedLaunchURL(t *testing.T) {
	app := makeApp(testConfig())

	status, _ := do(t, app, "/api/whoami?"+signedQuery("badge-demo.myshopify.com", launchTime.Add(-2*time.Hour)), "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "/api/whoami?"+signedQuery("badge-demo.myshopify.com", launchTime.Add(time.Hour)), "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNew_RejectsSignedLaunchURLForOtherShop(t *testing.T) {
	app := makeApp(testConfig())

	status, _ := do(t, app, "/api/whoami?"+signedQuery("someone-else.myshopify.com", launchTime), "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNew_SignedLaunchURLDoesNotAuthorizeWrites(t *testing.T) {
	app := makeApp(testConfig())
	query := signedQuery("badge-demo.myshopify.com", launchTime)

	status, _ := doMethod(t, app, "POST", "/api/whoami?"+query, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, b := doMethod(t, app, "POST", "/api/whoami?"+query, sessionToken(t, testKey))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "badge-demo.myshopify.com", b)
}

func TestNew_DevModeSkipsChecks(t *testing.T) {
	app := makeApp(Config{DevMode: true})

	status, b := do(t, app, "/api/whoami", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", b)
}
