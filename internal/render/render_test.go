package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/product-support/internal/catalog"
	"github.com/rcliao/product-support/internal/dataset"
	"github.com/rcliao/product-support/internal/schema"
)

func v(s string) catalog.Value { return catalog.Value{Text: s, OK: true} }

func TestProduct_AllFields(t *testing.T) {
	p := catalog.Product{
		Name:         v("Boytone BT-210F"),
		Brand:        v("Boytone"),
		Category:     v("Speakers"),
		PriceMin:     v("149.00"),
		PriceMax:     v("179.99"),
		Availability: v("In Stock"),
		Store:        v("Bestbuy.com"),
		Weight:       v("25 lbs"),
		URL:          v("https://example.com/p"),
		ImageURL:     v("https://example.com/p.jpg"),
	}

	want := strings.Join([]string{
		"Product: Boytone BT-210F",
		"Brand: Boytone",
		"Category: Speakers",
		"Price range: 149.00 – 179.99",
		"Availability: In Stock",
		"Store: Bestbuy.com",
		"Weight: 25 lbs",
		"URL: https://example.com/p",
		"Image URL: https://example.com/p.jpg",
	}, "\n")
	assert.Equal(t, want, Product(p))
}

func TestProduct_UnknownsAndOptionalLines(t *testing.T) {
	p := catalog.Product{
		Name:     v("JBL Flip 4"),
		URL:      v("https://example.com/jbl"),
		ImageURL: v("https://example.com/jbl"),
	}

	want := strings.Join([]string{
		"Product: JBL Flip 4",
		"Brand: Unknown",
		"Category: Unknown",
		"Price: Unknown",
		"Availability: Unknown",
		"Store: Unknown",
		"URL: https://example.com/jbl",
	}, "\n")
	assert.Equal(t, want, Product(p))
}

func TestPriceLine(t *testing.T) {
	none := catalog.Value{}
	assert.Equal(t, "Price: 49.99", priceLine(v("49.99"), v("49.990")))
	assert.Equal(t, "Price: 49.99", priceLine(none, v("49.99")))
	assert.Equal(t, "Price: 39.99", priceLine(v("39.99"), none))
	assert.Equal(t, "Price range: 10 – 20", priceLine(v("10"), v("20")))
	assert.Equal(t, "Price: Unknown", priceLine(none, none))
}

func TestLookup_SoftFailures(t *testing.T) {
	c := catalog.New(dataset.New([]string{"name"}, [][]string{{"Echo Dot"}}))
	assert.Equal(t, "Please provide a valid product name.", Lookup(c.Lookup(" ")))
	assert.Equal(t, "No information found for 'kindle'.", Lookup(c.Lookup("kindle")))

	bare := catalog.New(dataset.New([]string{"sku"}, [][]string{{"1"}}))
	assert.Equal(t, "Dataset does not contain a valid product name column.", Lookup(bare.Lookup("x")))
}

func TestLookup_Found(t *testing.T) {
	c := catalog.New(dataset.New(
		[]string{"name", "brand", "prices.amountMax", "availability"},
		[][]string{{"Sanus VLF410B1 Mount", "Sanus", "49.99", "In Stock"}},
	))
	out := Lookup(c.Lookup("sanus"))
	assert.Contains(t, out, "Product: Sanus VLF410B1 Mount")
	assert.Contains(t, out, "Price: 49.99")
	assert.Contains(t, out, "Availability: In Stock")
	assert.NotContains(t, out, "URL")
}

func TestList(t *testing.T) {
	c := catalog.New(dataset.New(
		[]string{"name", "brand", "categories"},
		[][]string{
			{"Sony A", "Sony", "Speakers"},
			{"JBL B", "JBL", "Speakers"},
			{"Bose C", "Bose", "Headphones"},
		},
	))

	assert.Equal(t, "Available categories:\n- headphones\n- speakers", List(c.Categories()))
	assert.Equal(t, "Available brands:\n- bose\n- jbl\n- sony", List(c.Brands("")))
	assert.Equal(t, "Available brands for category 'speakers':\n- jbl\n- sony", List(c.Brands("speakers")))
	assert.Equal(t, "Products for category 'speakers' and brand 'sony':\n- Sony A", List(c.Products("speakers", "sony")))
	assert.Equal(t, "Products:\n- Bose C\n- JBL B\n- Sony A", List(c.Products("", "")))

	assert.Equal(t, "No brands found for category 'tv'.", List(c.Brands("tv")))
	assert.Equal(t, "No products found for brand 'apple'.", List(c.Products("", "apple")))
}

func TestList_Unsupported(t *testing.T) {
	c := catalog.New(dataset.New([]string{"name"}, [][]string{{"A"}}))
	assert.Equal(t, "No category information available.", List(c.Categories()))
	assert.Equal(t, "No brand information available.", List(c.Brands("")))

	res := catalog.ListResult{Kind: catalog.ListProducts, Status: catalog.StatusUnsupported, Missing: schema.RoleStore}
	assert.Equal(t, "No store information available.", List(res))
}

func TestList_EmptyCategories(t *testing.T) {
	c := catalog.New(dataset.New([]string{"name", "categories"}, [][]string{{"A", ""}}))
	assert.Equal(t, "No categories found.", List(c.Categories()))
}
