package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rcliao/product-support/internal/dataset"
	"github.com/rcliao/product-support/internal/schema"
)

// Lookup finds the product whose name best matches query.
//
// Exact (case-insensitive, trimmed) name matches take precedence over
// substring matches. Among the matches the cheapest row wins, priced by
// price_min when that role is mapped and price_max otherwise. Rows without a
// parsable price only win when no match has one, in which case the first
// match in file order is returned.
func (c *Catalog) Lookup(query string) LookupResult {
	res := LookupResult{Query: query}

	q := normalize(query)
	if q == "" {
		res.Status = StatusInvalid
		return res
	}
	nameCol, ok := c.mapping.Column(schema.RoleName)
	if !ok {
		res.Status = StatusUnsupported
		return res
	}

	var exact, partial []dataset.Row
	for _, row := range c.data.Rows {
		name, ok := c.data.Value(row, nameCol)
		if !ok {
			continue
		}
		n := normalize(name)
		switch {
		case n == q:
			exact = append(exact, row)
		case len(exact) == 0 && strings.Contains(n, q):
			partial = append(partial, row)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	if len(matches) == 0 {
		res.Status = StatusNotFound
		return res
	}

	p := c.product(c.cheapest(matches))
	res.Status = StatusFound
	res.Product = &p
	return res
}

func (c *Catalog) cheapest(rows []dataset.Row) dataset.Row {
	role := schema.RolePriceMin
	if !c.mapping.Has(role) {
		role = schema.RolePriceMax
	}
	if !c.mapping.Has(role) {
		return rows[0]
	}

	type priced struct {
		row   dataset.Row
		price float64
	}
	var candidates []priced
	for _, row := range rows {
		v, ok := c.value(row, role)
		if !ok {
			continue
		}
		if f, ok := parsePrice(v); ok {
			candidates = append(candidates, priced{row: row, price: f})
		}
	}
	if len(candidates) == 0 {
		return rows[0]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].price < candidates[j].price
	})
	return candidates[0].row
}

// parsePrice accepts finite decimal prices only. Hex floats and infinities
// parse under strconv but are not prices.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	digits := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(digits, "0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
