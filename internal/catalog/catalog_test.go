package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/product-support/internal/dataset"
	"github.com/rcliao/product-support/internal/schema"
)

func newCatalog(t *testing.T, columns []string, records ...[]string) *Catalog {
	t.Helper()
	return New(dataset.New(columns, records))
}

var productColumns = []string{"name", "brand", "categories", "prices.amountMin", "prices.amountMax"}

func TestLookup_ExactMatch(t *testing.T) {
	c := newCatalog(t, []string{"name", "brand", "prices.amountMax", "availability"},
		[]string{"Sanus VLF410B1 Mount", "Sanus", "49.99", "In Stock"},
	)

	res := c.Lookup("sanus vlf410b1 mount")
	require.Equal(t, StatusFound, res.Status)
	require.NotNil(t, res.Product)
	assert.Equal(t, "Sanus VLF410B1 Mount", res.Product.Name.Text)
	assert.Equal(t, "49.99", res.Product.PriceMax.Text)
	assert.False(t, res.Product.PriceMin.OK)
	assert.Equal(t, "In Stock", res.Product.Availability.Text)
}

func TestLookup_SubstringPicksCheapest(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMin"},
		[]string{"Boytone 2500W Home Theater", "199"},
		[]string{"Boytone BT-210F Speaker", "149"},
	)

	res := c.Lookup("boytone")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "Boytone BT-210F Speaker", res.Product.Name.Text)
	assert.Equal(t, "149", res.Product.PriceMin.Text)
}

func TestLookup_ExactBeatsCheaperSubstring(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMin"},
		[]string{"Echo Dot Kids Edition", "10"},
		[]string{"Echo Dot", "49.99"},
		[]string{"Echo Dot Refurbished", "5"},
	)

	res := c.Lookup("  ECHO DOT ")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "Echo Dot", res.Product.Name.Text)
}

func TestLookup_CheapestAmongExactMatches(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMin"},
		[]string{"Roku Express", "39.99"},
		[]string{"roku express", "29.99"},
		[]string{"Roku Express", "n/a"},
	)

	res := c.Lookup("Roku Express")
	assert.Equal(t, "roku express", res.Product.Name.Text)
	assert.Equal(t, "29.99", res.Product.PriceMin.Text)
}

func TestLookup_UsesPriceMaxWhenNoPriceMinColumn(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMax"},
		[]string{"Kindle Paperwhite", "139.99"},
		[]string{"Kindle Paperwhite Kids", "99.99"},
	)

	res := c.Lookup("kindle")
	assert.Equal(t, "Kindle Paperwhite Kids", res.Product.Name.Text)
}

func TestLookup_UnparsablePricesFallBackToFileOrder(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMin"},
		[]string{"Logitech Z313", "call"},
		[]string{"Logitech Z623", ""},
	)

	res := c.Lookup("logitech")
	assert.Equal(t, "Logitech Z313", res.Product.Name.Text)
}

func TestLookup_NonFinitePricesAreUnparsable(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   string
	}{
		{"negative infinity", []string{"149", "-Inf", "0x1p3"}, "Boytone A"},
		{"infinity spelled out", []string{"Infinity", "99", "+Inf"}, "Boytone B"},
		{"hex floats", []string{"0x1p3", "-0X1p2", "12.50"}, "Boytone C"},
		{"nothing finite", []string{"inf", "0x10", "-infinity"}, "Boytone A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCatalog(t, []string{"name", "prices.amountMin"},
				[]string{"Boytone A", tt.prices[0]},
				[]string{"Boytone B", tt.prices[1]},
				[]string{"Boytone C", tt.prices[2]},
			)
			assert.Equal(t, tt.want, c.Lookup("boytone").Product.Name.Text)
		})
	}
}

func TestParsePrice(t *testing.T) {
	for in, want := range map[string]bool{
		"29.99": true, " 5 ": true, "-3": true, "1e3": true,
		"": false, "call": false, "NaN": false, "Inf": false, "-inf": false,
		"0x1p3": false, "-0x10": false, "$10": false,
	} {
		_, ok := parsePrice(in)
		assert.Equal(t, want, ok, in)
	}
}

func TestLookup_PricedRowBeatsUnpricedRow(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMin"},
		[]string{"Anker PowerCore", "unknown"},
		[]string{"Anker PowerCore 10000", "25.99"},
	)

	res := c.Lookup("anker")
	assert.Equal(t, "Anker PowerCore 10000", res.Product.Name.Text)
}

func TestLookup_EqualPricesKeepFileOrder(t *testing.T) {
	c := newCatalog(t, []string{"name", "prices.amountMin"},
		[]string{"Fire TV Stick A", "39.99"},
		[]string{"Fire TV Stick B", "39.99"},
	)

	for i := 0; i < 5; i++ {
		assert.Equal(t, "Fire TV Stick A", c.Lookup("fire tv").Product.Name.Text)
	}
}

func TestLookup_LiteralSubstring(t *testing.T) {
	c := newCatalog(t, []string{"name"},
		[]string{"USB-C Cable (2m)"},
		[]string{"USB Cable"},
	)

	res := c.Lookup("(2m)")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "USB-C Cable (2m)", res.Product.Name.Text)

	assert.Equal(t, StatusNotFound, c.Lookup("usb.*").Status)
}

func TestLookup_EmptyQuery(t *testing.T) {
	c := newCatalog(t, productColumns)
	for _, q := range []string{"", "   ", "\t\n"} {
		res := c.Lookup(q)
		assert.Equal(t, StatusInvalid, res.Status, "query %q", q)
		assert.Nil(t, res.Product)
	}
}

func TestLookup_NoNameColumn(t *testing.T) {
	c := newCatalog(t, []string{"sku", "brand"}, []string{"123", "Sony"})
	assert.Equal(t, StatusUnsupported, c.Lookup("sony").Status)
}

func TestLookup_NotFound(t *testing.T) {
	c := newCatalog(t, productColumns, []string{"Sony WH-1000XM4", "Sony", "Headphones", "278", "348"})
	res := c.Lookup("bose")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "bose", res.Query)
}

func TestLookup_MissingNamesNeverMatch(t *testing.T) {
	c := newCatalog(t, []string{"name", "brand"}, []string{"", "nan"}, []string{"NaN", "x"})
	assert.Equal(t, StatusNotFound, c.Lookup("nan").Status)
}

func TestLookup_Idempotent(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"Bose QuietComfort 35", "Bose", "Headphones", "299", "349"},
		[]string{"Bose SoundLink Mini", "Bose", "Speakers", "149", "199"},
	)
	first := c.Lookup("bose")
	second := c.Lookup("bose")
	assert.Equal(t, first, second)
}

func TestCategoryMatches(t *testing.T) {
	tests := []struct {
		term, value string
		want        bool
	}{
		{"theater", "Home Theater Systems", true},
		{"cinema", "Home Theater Systems", false},
		{"headphones", "Headphones & Earbuds", true},
		{"HEADPHONES", "headphones,earbuds", true},
		{"tv", "Televisions & Video", false},
		{"tv", "TV Mounts", true},
		{"home-audio", "Home Theater", true},
		{"speakers", "Speakers", true},
		{"", "Speakers", false},
		{"speakers", "", false},
		{"&&&", "&&&", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s~%s", tt.term, tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryMatches(tt.term, tt.value))
		})
	}
}

func TestCategories(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"A", "Sony", "Speakers", "", ""},
		[]string{"B", "Sony", " speakers ", "", ""},
		[]string{"C", "Bose", "Headphones & Earbuds", "", ""},
		[]string{"D", "Bose", "", "", ""},
	)

	res := c.Categories()
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, []string{"headphones & earbuds", "speakers"}, res.Items)
}

func TestCategories_Unsupported(t *testing.T) {
	c := newCatalog(t, []string{"name"}, []string{"A"})
	res := c.Categories()
	assert.Equal(t, StatusUnsupported, res.Status)
	assert.Equal(t, schema.RoleCategory, res.Missing)
}

func TestCategories_Empty(t *testing.T) {
	c := newCatalog(t, productColumns, []string{"A", "Sony", "", "", ""})
	res := c.Categories()
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Empty(t, res.Items)
}

func TestBrands(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"A", "Sony", "Speakers", "", ""},
		[]string{"B", "SONY ", "Headphones", "", ""},
		[]string{"C", "Bose", "Headphones & Earbuds", "", ""},
		[]string{"D", "JBL", "Speakers", "", ""},
	)

	res := c.Brands("")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, []string{"bose", "jbl", "sony"}, res.Items)

	res = c.Brands("headphones")
	assert.Equal(t, []string{"bose", "sony"}, res.Items)
	assert.Equal(t, "headphones", res.Category)

	res = c.Brands("cinema")
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestBrands_NoBrandColumn(t *testing.T) {
	c := newCatalog(t, []string{"name", "categories"}, []string{"A", "Speakers"})
	res := c.Brands("")
	assert.Equal(t, StatusUnsupported, res.Status)
	assert.Equal(t, schema.RoleBrand, res.Missing)
}

func TestBrands_CategoryFilterWithoutCategoryColumn(t *testing.T) {
	c := newCatalog(t, []string{"name", "brand"}, []string{"A", "Sony"})
	res := c.Brands("speakers")
	assert.Equal(t, StatusUnsupported, res.Status)
	assert.Equal(t, schema.RoleCategory, res.Missing)
}

func TestProducts_CategoryTokenFilter(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"Sony MDR-7506", "Sony", "Headphones & Earbuds", "", ""},
		[]string{"JBL Flip 4", "JBL", "Speakers", "", ""},
		[]string{"Bose QC35", "Bose", "headphones", "", ""},
	)

	res := c.Products("headphones", "")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, []string{"Bose QC35", "Sony MDR-7506"}, res.Items)
}

func TestProducts_BrandIsExactNotTokenOverlap(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"Sony A", "Sony", "Speakers", "", ""},
		[]string{"Sony B", "Sony Pictures", "Speakers", "", ""},
		[]string{"Sony C", " sony ", "Speakers", "", ""},
	)

	res := c.Products("", "SONY")
	assert.Equal(t, []string{"Sony A", "Sony C"}, res.Items)
}

func TestProducts_CategoryAndBrand(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"Sony A", "Sony", "Speakers", "", ""},
		[]string{"Sony B", "Sony", "Headphones", "", ""},
		[]string{"JBL C", "JBL", "Speakers", "", ""},
	)
	res := c.Products("speakers", "sony")
	assert.Equal(t, []string{"Sony A"}, res.Items)
	assert.Equal(t, "speakers", res.Category)
	assert.Equal(t, "sony", res.Brand)
}

func TestProducts_DedupAndCap(t *testing.T) {
	var records [][]string
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("Cable %02d", 29-i)
		records = append(records, []string{name, "Amazon", "Cables", "", ""})
		records = append(records, []string{" " + name + " ", "Amazon", "Cables", "", ""})
	}
	c := New(dataset.New(productColumns, records))

	res := c.Products("", "")
	require.Len(t, res.Items, MaxProducts)
	assert.True(t, sort.StringsAreSorted(res.Items))
	assert.Equal(t, "Cable 00", res.Items[0])
	assert.Equal(t, "Cable 19", res.Items[MaxProducts-1])

	seen := map[string]bool{}
	for _, item := range res.Items {
		assert.False(t, seen[item], "duplicate %q", item)
		seen[item] = true
	}
}

func TestProducts_CaseInsensitiveDedup(t *testing.T) {
	c := newCatalog(t, productColumns,
		[]string{"Echo Dot", "Amazon", "", "", ""},
		[]string{"ECHO DOT", "Amazon", "", "", ""},
	)
	assert.Equal(t, []string{"Echo Dot"}, c.Products("", "").Items)
}

func TestProducts_Unsupported(t *testing.T) {
	c := newCatalog(t, []string{"sku"}, []string{"1"})
	res := c.Products("", "")
	assert.Equal(t, StatusUnsupported, res.Status)
	assert.Equal(t, schema.RoleName, res.Missing)

	c = newCatalog(t, []string{"name"}, []string{"A"})
	assert.Equal(t, schema.RoleBrand, c.Products("", "sony").Missing)
	assert.Equal(t, schema.RoleCategory, c.Products("tv", "").Missing)
}

func TestProducts_Empty(t *testing.T) {
	c := newCatalog(t, productColumns, []string{"A", "Sony", "Speakers", "", ""})
	res := c.Products("headphones", "")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Empty(t, res.Items)
}

func TestNewWithMapping_DropsUnknownColumns(t *testing.T) {
	d := dataset.New([]string{"name"}, [][]string{{"A"}})
	m := schema.Detect([]string{"name", "brand"})
	c := NewWithMapping(d, m)
	assert.False(t, c.Mapping().Has(schema.RoleBrand))
	assert.True(t, c.Mapping().Has(schema.RoleName))
}

func TestLoad_Fixture(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "products.csv"), 0)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Empty(t, c.Mapping().Missing())

	res := c.Lookup("boytone")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "Boytone BT-210F Portable Speaker", res.Product.Name.Text)

	res = c.Lookup("jbl flip 4")
	require.Equal(t, StatusFound, res.Status)
	assert.False(t, res.Product.PriceMax.OK)
	assert.False(t, res.Product.Brand.OK)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestHolder_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, "name,brand\nEcho Dot,Amazon\n")

	h, err := NewHolder(path, 10, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, StatusFound, h.Current().Lookup("echo dot").Status)

	writeCSV(t, path, "title,manufacturer\nKindle,Amazon\n")
	require.NoError(t, h.Reload())
	assert.Equal(t, StatusNotFound, h.Current().Lookup("echo dot").Status)
	assert.Equal(t, StatusFound, h.Current().Lookup("kindle").Status)
}

func TestHolder_FailedReloadKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, "name\nEcho Dot\n")

	h, err := NewHolder(path, 10, zerolog.Nop())
	require.NoError(t, err)
	before := h.Current()

	require.NoError(t, os.Remove(path))
	require.Error(t, h.Reload())
	assert.Same(t, before, h.Current())
}

func TestHolder_ConcurrentReadersSeeConsistentPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	writeCSV(t, path, "name\nEcho Dot\n")
	h, err := NewHolder(path, 10, zerolog.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				c := h.Current()
				col, ok := c.Mapping().Column(schema.RoleName)
				if assert.True(t, ok) {
					assert.True(t, c.Dataset().HasColumn(col))
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			writeCSV(t, path, "title\nKindle\n")
		} else {
			writeCSV(t, path, "name\nEcho Dot\n")
		}
		require.NoError(t, h.Reload())
	}
	close(stop)
	wg.Wait()
}

func TestNewStaticHolder(t *testing.T) {
	c := newCatalog(t, []string{"name"}, []string{"A"})
	h := NewStaticHolder(c)
	assert.Same(t, c, h.Current())
	assert.Error(t, h.Reload())
}
