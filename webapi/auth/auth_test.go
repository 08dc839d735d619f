package auth_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phoebudget/phoebudget/pkg/currency"
	"github.com/phoebudget/phoebudget/pkg/middleware"
	"github.com/phoebudget/phoebudget/webapi/auth"
	"github.com/phoebudget/phoebudget/webapi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func accessToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestCurrencies_ListsSupportedCodes(t *testing.T) {
	app := fiber.New()
	auth.Routes(app, nil, middleware.Protected(secret))

	req := httptest.NewRequest("GET", "/settings/currencies", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, currency.Codes(), body.Data)
	assert.Contains(t, body.Data, "SGD")
}

func TestCurrencies_RequiresAuth(t *testing.T) {
	app := fiber.New()
	auth.Routes(app, nil, middleware.Protected(secret))

	resp, err := app.Test(httptest.NewRequest("GET", "/settings/currencies", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body common.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "VAL-400", body.Errors[0].Code)
}
