package content

import (
	"testing"

	"chickstage-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "ChickStage360", c.Brand)
	assert.Len(t, c.Products, 6)
	assert.Len(t, c.Features, 6)
	assert.Len(t, c.Courses, 4)
	assert.Len(t, c.Interviews, 4)
	assert.Len(t, c.Batches, 2)
	assert.Len(t, c.Stages, 5)
	assert.Len(t, c.Upcoming, 3)
	assert.Equal(t, 247, c.Live.Viewers)
	assert.Equal(t, "2h 15m", c.Live.Duration)
	assert.Equal(t, "+254701234567", c.Products[0].Phone)
	assert.Equal(t, 50.0, c.Products[0].OriginalPrice)
	assert.Contains(t, c.Interviews[0].Title, "Sarah's Success Story")

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestCategoryCountsComeFromProducts(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	got := map[string]int{}
	for _, cat := range c.Categories {
		got[cat.ID] = cat.Count
	}
	assert.Equal(t, map[string]int{
		"all":    6,
		"chicks": 1,
		"layers": 2,
		"eggs":   1,
		"feed":   1,
		"manure": 1,
	}, got)
}

func TestFilterProducts(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"all unchanged", "", "all", names(c.Products)},
		{"empty category is all", "", "", names(c.Products)},
		{"category only", "", "layers", []string{"Layer Pullets (16 weeks)", "Kienyeji Chickens (Mature)"}},
		{"search name ignores case", "FEED", "all", []string{"Starter Feed (50kg)"}},
		{"search description", "free-range", "all", []string{"Fresh Farm Eggs (30 pieces)"}},
		{"search within category", "chick", "layers", []string{"Kienyeji Chickens (Mature)"}},
		{"search across categories", "chick", "all", []string{
			"Day-Old Chicks (Broiler)", "Fresh Farm Eggs (30 pieces)", "Starter Feed (50kg)", "Organic Chicken Manure (Bag)", "Kienyeji Chickens (Mature)",
		}},
		{"no match", "duck", "all", []string{}},
		{"unknown category", "", "ducks", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterProducts(c.Products, tt.search, tt.category)))
		})
	}
}

func TestFilterProductsDoesNotMutateInput(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "A", Category: "eggs"},
		{ID: 2, Name: "B", Category: "feed"},
	}
	_ = FilterProducts(products, "", "feed")
	assert.Equal(t, "A", products[0].Name)
	assert.Len(t, products, 2)
}

func TestSplitFeatured(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	featured, regular := SplitFeatured(c.Interviews)
	require.NotNil(t, featured)
	assert.Equal(t, "Sarah Wanjiku", featured.Farmer)
	assert.Len(t, regular, 3)
	for _, item := range regular {
		assert.False(t, item.Featured)
	}

	none, all := SplitFeatured(regular)
	assert.Nil(t, none)
	assert.Len(t, all, 3)
}

func TestSelectBatch(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		raw  string
		want int
	}{
		{"2", 2},
		{"1", 1},
		{"", 1},
		{"99", 1},
		{"abc", 1},
	}
	for _, tt := range tests {
		t.Run("batch="+tt.raw, func(t *testing.T) {
			b, ok := SelectBatch(c.Batches, tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, b.ID)
		})
	}

	_, ok := SelectBatch(nil, "1")
	assert.False(t, ok)
}

func TestBatchHealthyPercent(t *testing.T) {
	assert.Equal(t, 97, models.Batch{TotalChicks: 500, HealthyChicks: 485}.HealthyPercent())
	assert.Equal(t, 98, models.Batch{TotalChicks: 300, HealthyChicks: 295}.HealthyPercent())
	assert.Equal(t, 0, models.Batch{}.HealthyPercent())
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("products: [unterminated"))
	require.Error(t, err)
}

func TestValidCategory(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.True(t, c.ValidCategory("eggs"))
	assert.False(t, c.ValidCategory("ducks"))
}
