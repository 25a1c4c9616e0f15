package tools

import (
	"context"
	"fmt"

	"github.com/rcliao/product-support/internal/catalog"
	"github.com/rcliao/product-support/internal/render"
)

// Catalog tool names.
const (
	LookupProduct  = "lookup_product"
	ListCategories = "list_categories"
	ListBrands     = "list_brands"
	ListProducts   = "list_products"
)

// CatalogTools describes the catalog operations without handlers. Servers
// fill in handlers that read a local catalog; proxies forward them.
func CatalogTools() []Tool {
	return []Tool{
		{
			Name:        LookupProduct,
			Description: "Look up a product by name and return its brand, category, price, availability and store.",
			Params: []Param{
				{Name: "product_name", Type: "string", Description: "Full or partial product name", Required: true, Lenient: true},
			},
		},
		{
			Name:        ListCategories,
			Description: "List every product category in the catalog.",
		},
		{
			Name:        ListBrands,
			Description: "List brands, optionally restricted to a category.",
			Params: []Param{
				{Name: "category", Type: "string", Description: "Category word to filter by"},
			},
		},
		{
			Name:        ListProducts,
			Description: "List up to 20 product names, optionally filtered by category and brand.",
			Params: []Param{
				{Name: "category", Type: "string", Description: "Category word to filter by"},
				{Name: "brand", Type: "string", Description: "Exact brand name"},
			},
		},
	}
}

// RegisterCatalog registers the catalog tools against the catalog currently
// published by h. Each call reads h.Current() so reloads take effect. A
// missing or non-string product_name is looked up as "", which answers with
// guidance text rather than an error.
func RegisterCatalog(r *Registry, h *catalog.Holder) error {
	handlers := map[string]Handler{
		LookupProduct: func(_ context.Context, args map[string]any) (any, error) {
			return render.Lookup(h.Current().Lookup(String(args, "product_name"))), nil
		},
		ListCategories: func(context.Context, map[string]any) (any, error) {
			return render.List(h.Current().Categories()), nil
		},
		ListBrands: func(_ context.Context, args map[string]any) (any, error) {
			return render.List(h.Current().Brands(String(args, "category"))), nil
		},
		ListProducts: func(_ context.Context, args map[string]any) (any, error) {
			return render.List(h.Current().Products(String(args, "category"), String(args, "brand"))), nil
		},
	}

	for _, t := range CatalogTools() {
		t.Handler = handlers[t.Name]
		if err := r.Register(t); err != nil {
			return fmt.Errorf("register catalog tools: %w", err)
		}
	}
	return nil
}
