package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cartsvc/internal/database"
	"cartsvc/internal/logger"
	"cartsvc/internal/repositories"
	"cartsvc/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) appServices {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	log := logger.Nop()
	catalog := services.NewCatalogService(repositories.NewGORMMenuItemRepository(db))
	seedMenuItems(catalog, log)

	return appServices{
		carts:   services.NewCartService(repositories.NewGORMCartRepository(db), catalog, nil, log),
		catalog: catalog,
		orders:  services.NewOrderService(repositories.NewGORMOrderRepository(db), log),
		log:     log,
	}
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app := newApp(newTestServices(t))

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(bodyBytes), "\"status\":\"healthy\"", "Health check response body does not contain expected status")
	})

	t.Run("CartsRequireActor", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+uuid.New().String(), nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Expected Unauthorized for /carts without X-Actor-ID")
	})

	t.Run("SeededCatalog", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/menu-items?restaurant_id=5", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(bodyBytes), "Margherita Pizza")
		assert.NotContains(t, string(bodyBytes), "Pad Thai")
	})
}

func TestSeedMenuItems_SkipsNonEmptyCatalog(t *testing.T) {
	repo := repositories.NewMockMenuItemRepository()
	catalog := services.NewCatalogService(repo)
	seedMenuItems(catalog, logger.Nop())
	seedMenuItems(catalog, logger.Nop())

	items, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, items, 4)
}
