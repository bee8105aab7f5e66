// Package content holds the static catalogue behind the public pages.
package content

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"chickstage-backend-go/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const AllCategories = "all"

type Hero struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Stats    []models.Stat `yaml:"stats"`
}

type Catalog struct {
	Brand      string                  `yaml:"brand"`
	Tagline    string                  `yaml:"tagline"`
	Hero       Hero                    `yaml:"hero"`
	Features   []models.Feature        `yaml:"features"`
	Categories []models.Category       `yaml:"categories"`
	Products   []models.Product        `yaml:"products"`
	Courses    []models.Course         `yaml:"courses"`
	Interviews []models.Interview      `yaml:"interviews"`
	Batches    []models.Batch          `yaml:"batches"`
	Stages     []models.Stage          `yaml:"stages"`
	Updates    []models.BatchUpdate    `yaml:"updates"`
	Chat       []models.ChatMessage    `yaml:"chat"`
	Upcoming   []models.UpcomingStream `yaml:"upcoming"`
	Live       models.LiveStats        `yaml:"live"`
	Footer     models.Footer           `yaml:"footer"`
	Social     []models.Link           `yaml:"social"`
}

// Parse decodes a catalogue document and fills in the category counts.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.Categories = CategoryCounts(c.Categories, c.Products)
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalogue. It is parsed once and must be
// treated as read-only.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// FilterProducts keeps the products in category (or every product for "all")
// whose name or description contains search, ignoring case. Order is kept.
func FilterProducts(products []models.Product, search, category string) []models.Product {
	needle := strings.ToLower(search)
	if needle == "" && (category == AllCategories || category == "") {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != AllCategories && category != "" && p.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CategoryCounts returns a copy of categories with Count set from products.
func CategoryCounts(categories []models.Category, products []models.Product) []models.Category {
	counts := map[string]int{}
	for _, p := range products {
		counts[p.Category]++
	}
	out := make([]models.Category, len(categories))
	for i, c := range categories {
		c.Count = counts[c.ID]
		if c.ID == AllCategories {
			c.Count = len(products)
		}
		out[i] = c
	}
	return out
}

// SplitFeatured returns the first featured interview and the rest.
func SplitFeatured(interviews []models.Interview) (*models.Interview, []models.Interview) {
	var featured *models.Interview
	regular := make([]models.Interview, 0, len(interviews))
	for i := range interviews {
		if interviews[i].Featured && featured == nil {
			item := interviews[i]
			featured = &item
			continue
		}
		if !interviews[i].Featured {
			regular = append(regular, interviews[i])
		}
	}
	return featured, regular
}

// SelectBatch finds the batch whose id is raw, falling back to the first
// batch. ok is false only when there are no batches.
func SelectBatch(batches []models.Batch, raw string) (models.Batch, bool) {
	if len(batches) == 0 {
		return models.Batch{}, false
	}
	if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		for _, b := range batches {
			if b.ID == id {
				return b, true
			}
		}
	}
	return batches[0], true
}

// ValidCategory reports whether id names one of the catalogue's categories.
func (c *Catalog) ValidCategory(id string) bool {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}
