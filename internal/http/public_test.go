package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"chickstage-backend-go/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicPagesRender(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Welcome to ChickStage360", "Lifecycle Tracker", "Admin Dashboard", "Sign In"}},
		{"/lifecycle", []string{"Chicken Lifecycle Tracker", "Batch #2024-001", "Brooding Stage", "Health Check"}},
		{"/marketplace", []string{"Poultry Marketplace", "Day-Old Chicks (Broiler)", "All Products (6)", "Layers (2)"}},
		{"/learning", []string{"Learning Center", "Breeding Techniques"}},
		{"/interviews", []string{"Farmer Interviews", "Sarah Wanjiku", "Peter Kamau"}},
		{"/livestream", []string{"LIVE", "247 watching", "FarmerJohn", "Vaccination Day - Expert Tips"}},
		{"/auth", []string{"Sign Up", "Create Account"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := env.getPage(t, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, want := range tt.want {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestMarketplaceFilters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.getPage(t, "/marketplace?category=layers&q=kienyeji", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Kienyeji Chickens (Mature)")
	assert.NotContains(t, body, "Layer Pullets (16 weeks)")
	assert.NotContains(t, body, "Starter Feed (50kg)")

	rec = env.getPage(t, "/marketplace?q=tractor", "")
	assert.Contains(t, rec.Body.String(), "No products found matching your criteria.")

	rec = env.do(t, http.MethodGet, "/api/public/products?q=%20%20", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[ProductsResponse](t, rec).Items)

	rec = env.do(t, http.MethodGet, "/api/public/products?q=FEED%20(", "", nil)
	resp := decode[ProductsResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Starter Feed (50kg)", resp.Items[0].Name)

	rec = env.getPage(t, "/marketplace?category=unknown", "")
	assert.Contains(t, rec.Body.String(), "Organic Chicken Manure (Bag)")
}

func TestPublicProductsAPI(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/public/products?category=eggs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ProductsResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Fresh Farm Eggs (30 pieces)", resp.Items[0].Name)
	assert.Len(t, resp.Categories, 6)
}

func TestInterviewsFeaturedFirst(t *testing.T) {
	env := newTestEnv(t)
	body := env.getPage(t, "/interviews", "").Body.String()
	assert.Contains(t, body, `<span class="badge">Featured</span>`)
	assert.Less(t, strings.Index(body, "Sarah&#39;s Success Story"), strings.Index(body, "Organic Farming: The Natural Way"))
}

func TestLifecycleSelectsBatch(t *testing.T) {
	env := newTestEnv(t)

	body := env.getPage(t, "/lifecycle?batch=2", "").Body.String()
	assert.Contains(t, body, "Grower Feed")
	assert.Contains(t, body, "295/300 (98%)")

	body = env.getPage(t, "/lifecycle?batch=99", "").Body.String()
	assert.Contains(t, body, "485/500 (97%)")
	assert.NotContains(t, body, "Grower Feed")
}

func TestPublicPagesRecordVisits(t *testing.T) {
	env := newTestEnv(t)
	env.getPage(t, "/", "")
	env.getPage(t, "/marketplace", "")
	env.getPage(t, "/missing", "")
	env.do(t, http.MethodGet, "/api/public/products", "", nil)

	total, err := services.CountVisits(context.Background(), env.db)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	rec := env.do(t, http.MethodGet, "/api/public/visits/count", "", nil)
	assert.Equal(t, 2, decode[VisitCountResponse](t, rec).Total)

	rec = env.do(t, http.MethodPost, "/api/public/visits", "", jsonBody(t, map[string]string{"path": "/learning"}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	total, err = services.CountVisits(context.Background(), env.db)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.getPage(t, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found.")

	rec = env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[ErrorResponse](t, rec).Message)
}
