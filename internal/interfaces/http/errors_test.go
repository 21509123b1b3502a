package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-ims/internal/application/dto"
	"github.com/jhoicas/grocery-ims/internal/domain"
)

// errorApp monta una ruta que siempre falla con err, para ejercitar el mapeo
// de errorJSON a través del pipeline real de Fiber.
func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error { return errorJSON(c, err) })
	return app
}

func TestErrorJSON_StockInsuficienteIncluyeDetalle(t *testing.T) {
	app := errorApp(&domain.InsufficientStockError{
		ProductID: "prod-9",
		Requested: decimal.NewFromInt(5),
		Available: decimal.NewFromInt(2),
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out dto.InsufficientStockResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, "prod-9", out.ProductID)
	assert.True(t, out.Requested.Equal(decimal.NewFromInt(5)))
	assert.True(t, out.Available.Equal(decimal.NewFromInt(2)))
}

// El sentinel sin detalle sigue respondiendo 409 con el cuerpo plano.
func TestErrorJSON_SentinelDeStockSinDetalle(t *testing.T) {
	app := errorApp(domain.ErrInsufficientStock)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
}
