// Package catalog answers product questions over a loaded dataset and its
// detected role mapping. A Catalog is immutable and safe for concurrent use.
package catalog

import (
	"fmt"
	"strings"

	"github.com/rcliao/product-support/internal/dataset"
	"github.com/rcliao/product-support/internal/schema"
)

// Catalog pairs a dataset with the role mapping detected from its columns.
type Catalog struct {
	data    *dataset.Dataset
	mapping schema.Mapping
	source  string
}

// New wraps d, detecting the role mapping from its columns.
func New(d *dataset.Dataset) *Catalog {
	return NewWithMapping(d, schema.Detect(d.Columns))
}

// NewWithMapping wraps d with an explicit mapping. Roles bound to columns
// that d does not have are treated as absent.
func NewWithMapping(d *dataset.Dataset, m schema.Mapping) *Catalog {
	for _, r := range schema.Roles {
		if col, ok := m.Column(r); ok && !d.HasColumn(col) {
			m = m.With(r, "")
		}
	}
	return &Catalog{data: d, mapping: m}
}

// Load reads the first limit rows of the CSV at path and detects its roles.
func Load(path string, limit int) (*Catalog, error) {
	d, err := dataset.Load(path, limit)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	c := New(d)
	c.source = path
	return c, nil
}

// Mapping returns the detected role mapping.
func (c *Catalog) Mapping() schema.Mapping { return c.mapping }

// Dataset returns the underlying table. It must not be modified.
func (c *Catalog) Dataset() *dataset.Dataset { return c.data }

// Source is the file the catalog was loaded from, if any.
func (c *Catalog) Source() string { return c.source }

// Len returns the number of loaded rows.
func (c *Catalog) Len() int { return c.data.Len() }

func (c *Catalog) value(row dataset.Row, r schema.Role) (string, bool) {
	col, ok := c.mapping.Column(r)
	if !ok {
		return "", false
	}
	return c.data.Value(row, col)
}

func (c *Catalog) attr(row dataset.Row, r schema.Role) Value {
	v, ok := c.value(row, r)
	return Value{Text: v, OK: ok}
}

func (c *Catalog) product(row dataset.Row) Product {
	return Product{
		Name:         c.attr(row, schema.RoleName),
		Brand:        c.attr(row, schema.RoleBrand),
		Category:     c.attr(row, schema.RoleCategory),
		PriceMin:     c.attr(row, schema.RolePriceMin),
		PriceMax:     c.attr(row, schema.RolePriceMax),
		Availability: c.attr(row, schema.RoleAvailability),
		Store:        c.attr(row, schema.RoleStore),
		Weight:       c.attr(row, schema.RoleWeight),
		URL:          c.attr(row, schema.RoleURL),
		ImageURL:     c.attr(row, schema.RoleImageURL),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
