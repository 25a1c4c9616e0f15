package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rcliao/product-support/internal/dataset"
	"github.com/rcliao/product-support/internal/schema"
)

var nonToken = regexp.MustCompile(`[^a-z0-9 ]+`)

func tokens(s string) map[string]struct{} {
	s = nonToken.ReplaceAllString(strings.ToLower(s), " ")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// CategoryMatches reports whether term and value share at least one word
// token. There is no stemming or synonym handling: "theater" matches
// "Home Theater Systems" but "tv" does not match "Televisions & Video".
func CategoryMatches(term, value string) bool {
	a, b := tokens(term), tokens(value)
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}

// Categories lists the distinct normalized category values.
func (c *Catalog) Categories() ListResult {
	res := ListResult{Kind: ListCategories}
	if !c.mapping.Has(schema.RoleCategory) {
		return unsupported(res, schema.RoleCategory)
	}
	res.Items = c.distinct(c.data.Rows, schema.RoleCategory)
	return settle(res)
}

// Brands lists the distinct normalized brands, optionally restricted to rows
// whose category shares a token with category.
func (c *Catalog) Brands(category string) ListResult {
	category = strings.TrimSpace(category)
	res := ListResult{Kind: ListBrands, Category: category}
	if !c.mapping.Has(schema.RoleBrand) {
		return unsupported(res, schema.RoleBrand)
	}
	rows := c.data.Rows
	if category != "" {
		if !c.mapping.Has(schema.RoleCategory) {
			return unsupported(res, schema.RoleCategory)
		}
		rows = c.filterCategory(rows, category)
	}
	res.Items = c.distinct(rows, schema.RoleBrand)
	return settle(res)
}

// Products lists up to MaxProducts distinct product names, optionally
// filtered by category (token overlap) and brand (exact, case-insensitive).
func (c *Catalog) Products(category, brand string) ListResult {
	category, brand = strings.TrimSpace(category), strings.TrimSpace(brand)
	res := ListResult{Kind: ListProducts, Category: category, Brand: brand}

	nameCol, ok := c.mapping.Column(schema.RoleName)
	if !ok {
		return unsupported(res, schema.RoleName)
	}
	rows := c.data.Rows
	if category != "" {
		if !c.mapping.Has(schema.RoleCategory) {
			return unsupported(res, schema.RoleCategory)
		}
		rows = c.filterCategory(rows, category)
	}
	if brand != "" {
		if !c.mapping.Has(schema.RoleBrand) {
			return unsupported(res, schema.RoleBrand)
		}
		want := normalize(brand)
		var kept []dataset.Row
		for _, row := range rows {
			if v, ok := c.value(row, schema.RoleBrand); ok && normalize(v) == want {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		name, ok := c.data.Value(row, nameCol)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > MaxProducts {
		names = names[:MaxProducts]
	}
	res.Items = names
	return settle(res)
}

func (c *Catalog) filterCategory(rows []dataset.Row, term string) []dataset.Row {
	var out []dataset.Row
	for _, row := range rows {
		if v, ok := c.value(row, schema.RoleCategory); ok && CategoryMatches(term, v) {
			out = append(out, row)
		}
	}
	return out
}

func (c *Catalog) distinct(rows []dataset.Row, r schema.Role) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		v, ok := c.value(row, r)
		if !ok {
			continue
		}
		n := normalize(v)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func unsupported(res ListResult, r schema.Role) ListResult {
	res.Status = StatusUnsupported
	res.Missing = r
	res.Items = nil
	return res
}

func settle(res ListResult) ListResult {
	if len(res.Items) == 0 {
		res.Status = StatusNotFound
		res.Items = []string{}
		return res
	}
	res.Status = StatusFound
	return res
}
