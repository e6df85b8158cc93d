package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/v1/stores/:id", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/stores/:id", "200"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/stores/abc", http.NoBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/stores/:id", "200"))
	assert.InDelta(t, 1, after-before, 1e-9)
	assert.Positive(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_UsesErrorStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/bad", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "nope")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	tests := []struct {
		path   string
		status string
	}{
		{"/bad", "400"},
		{"/boom", "500"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tt.path, tt.status))

			_, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			require.NoError(t, err)

			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tt.path, tt.status))
			assert.InDelta(t, 1, after-before, 1e-9)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "unknown", normalizePath("/"))
	assert.Equal(t, "/api/v1/search/stores", normalizePath("/api/v1/search/stores"))
}

func TestRecorders(t *testing.T) {
	hits := testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("filters", CacheHit))
	RecordCache("filters", CacheHit)
	assert.InDelta(t, hits+1, testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("filters", CacheHit)), 1e-9)

	empty := testutil.ToFloat64(searchResultsTotal.WithLabelValues("empty"))
	RecordSearchResult(0)
	assert.InDelta(t, empty+1, testutil.ToFloat64(searchResultsTotal.WithLabelValues("empty")), 1e-9)

	expired := testutil.ToFloat64(dealsExpiredTotal)
	AddExpiredDeals(3)
	AddExpiredDeals(0)
	assert.InDelta(t, expired+3, testutil.ToFloat64(dealsExpiredTotal), 1e-9)

	runs := testutil.ToFloat64(jobRunsTotal.WithLabelValues("deal_expiry", "completed"))
	RecordJobRun("deal_expiry", "completed")
	assert.InDelta(t, runs+1, testutil.ToFloat64(jobRunsTotal.WithLabelValues("deal_expiry", "completed")), 1e-9)

	ObserveSearch(StageSearch, time.Now())
	assert.Positive(t, testutil.CollectAndCount(searchStageDuration))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordCache("search", CacheMiss)

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "store_search_cache_requests_total"))
}
