// Package render turns catalog results into the plain-text answers handed to
// agents and printed by the CLI.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/product-support/internal/catalog"
	"github.com/rcliao/product-support/internal/schema"
)

const unknown = "Unknown"

// Lookup renders a product lookup.
func Lookup(res catalog.LookupResult) string {
	switch res.Status {
	case catalog.StatusInvalid:
		return "Please provide a valid product name."
	case catalog.StatusUnsupported:
		return "Dataset does not contain a valid product name column."
	case catalog.StatusNotFound:
		return fmt.Sprintf("No information found for '%s'.", res.Query)
	}
	if res.Product == nil {
		return fmt.Sprintf("No information found for '%s'.", res.Query)
	}
	return Product(*res.Product)
}

// Product renders one product as labeled lines.
func Product(p catalog.Product) string {
	lines := []string{
		"Product: " + p.Name.Or(unknown),
		"Brand: " + p.Brand.Or(unknown),
		"Category: " + p.Category.Or(unknown),
		priceLine(p.PriceMin, p.PriceMax),
		"Availability: " + p.Availability.Or(unknown),
		"Store: " + p.Store.Or(unknown),
	}
	if p.Weight.OK {
		lines = append(lines, "Weight: "+p.Weight.Text)
	}
	if p.URL.OK {
		lines = append(lines, "URL: "+p.URL.Text)
	}
	if p.ImageURL.OK && p.ImageURL.Text != p.URL.Text {
		lines = append(lines, "Image URL: "+p.ImageURL.Text)
	}
	return strings.Join(lines, "\n")
}

func priceLine(lo, hi catalog.Value) string {
	switch {
	case lo.OK && hi.OK && !samePrice(lo.Text, hi.Text):
		return fmt.Sprintf("Price range: %s – %s", lo.Text, hi.Text)
	case hi.OK:
		return "Price: " + hi.Text
	case lo.OK:
		return "Price: " + lo.Text
	}
	return "Price: " + unknown
}

// samePrice compares numerically when both sides parse, textually otherwise.
func samePrice(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return a == b
}

// List renders a discovery listing.
func List(res catalog.ListResult) string {
	switch res.Status {
	case catalog.StatusUnsupported:
		return unsupported(res.Missing)
	case catalog.StatusInvalid:
		return "Please provide a valid request."
	case catalog.StatusNotFound:
		return notFound(res)
	}

	var b strings.Builder
	b.WriteString(heading(res))
	for _, item := range res.Items {
		b.WriteString("\n- ")
		b.WriteString(item)
	}
	return b.String()
}

func unsupported(r schema.Role) string {
	switch r {
	case schema.RoleName:
		return "Dataset does not contain a valid product name column."
	case schema.RoleCategory:
		return "No category information available."
	case schema.RoleBrand:
		return "No brand information available."
	}
	return fmt.Sprintf("No %s information available.", strings.ReplaceAll(r.String(), "_", " "))
}

func notFound(res catalog.ListResult) string {
	switch res.Kind {
	case catalog.ListCategories:
		return "No categories found."
	case catalog.ListBrands:
		if res.Category != "" {
			return fmt.Sprintf("No brands found for category '%s'.", res.Category)
		}
		return "No brands found."
	}
	return "No products found" + filters(res) + "."
}

func heading(res catalog.ListResult) string {
	switch res.Kind {
	case catalog.ListCategories:
		return "Available categories:"
	case catalog.ListBrands:
		if res.Category != "" {
			return fmt.Sprintf("Available brands for category '%s':", res.Category)
		}
		return "Available brands:"
	}
	return "Products" + filters(res) + ":"
}

func filters(res catalog.ListResult) string {
	var parts []string
	if res.Category != "" {
		parts = append(parts, fmt.Sprintf("category '%s'", res.Category))
	}
	if res.Brand != "" {
		parts = append(parts, fmt.Sprintf("brand '%s'", res.Brand))
	}
	if len(parts) == 0 {
		return ""
	}
	return " for " + strings.Join(parts, " and ")
}
