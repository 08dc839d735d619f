package common_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/phoebudget/phoebudget/pkg/domain"
	"github.com/phoebudget/phoebudget/webapi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorJSON_Taxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidAmount, fiber.StatusBadRequest, "VAL-400"},
		{domain.ErrInsufficientFunds, fiber.StatusBadRequest, "VAL-400"},
		{domain.ErrUserUnauthorized, fiber.StatusUnauthorized, "AUTH-401"},
		{domain.ErrTokenReuseDetected, fiber.StatusUnauthorized, "AUTH-401"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT-404"},
		{domain.ErrUnknownAsset, fiber.StatusNotFound, "NOT-404"},
		{domain.ErrAlreadyDeleted, fiber.StatusConflict, "CONFLICT-409"},
		{domain.ErrUserExists, fiber.StatusConflict, "CONFLICT-409"},
		{domain.ErrStorage, fiber.StatusInternalServerError, "DB-500"},
		{fmt.Errorf("wrapped: %w", domain.ErrPocketInUse), fiber.StatusConflict, "CONFLICT-409"},
		{fmt.Errorf("something else"), fiber.StatusInternalServerError, "INT-500"},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/boom", func(c *fiber.Ctx) error {
			return common.DomainErrorJSON(c, tc.err)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err)

		var body common.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Success)
		require.Len(t, body.Errors, 1, tc.err)
		assert.Equal(t, tc.code, body.Errors[0].Code, tc.err)
	}
}

func TestSuccessJSON_Shape(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return common.SuccessJSON(c, fiber.StatusCreated, "created", fiber.Map{"id": 7})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body common.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "created", body.Message)
	assert.Empty(t, body.Errors)
}

func TestBindAndValidate(t *testing.T) {
	type input struct {
		Email string `json:"email" validate:"required,email"`
	}

	app := fiber.New()
	app.Post("/bind", func(c *fiber.Ctx) error {
		in, err := common.BindAndValidate[input](c)
		if in == nil {
			return err
		}
		return common.SuccessJSON(c, fiber.StatusOK, "ok", in)
	})

	good := httptest.NewRequest("POST", "/bind", strings.NewReader(`{"email":"a@b.co"}`))
	good.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(good)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	bad := httptest.NewRequest("POST", "/bind", strings.NewReader(`{"email":"nope"}`))
	bad.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body common.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "VAL-400", body.Errors[0].Code)
}
