package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var datafinitiColumns = []string{
	"id", "prices.amountMax", "prices.amountMin", "prices.availability",
	"prices.condition", "prices.currency", "prices.dateSeen", "prices.isSale",
	"prices.merchant", "prices.shipping", "prices.sourceURLs", "asins", "brand",
	"categories", "dateAdded", "dateUpdated", "ean", "imageURLs", "keys",
	"manufacturer", "manufacturerNumber", "name", "primaryCategories",
	"sourceURLs", "upc", "weight",
}

func TestDetect_DatafinitiLayout(t *testing.T) {
	m := Detect(datafinitiColumns)

	want := map[Role]string{
		RoleName:         "name",
		RolePriceMin:     "prices.amountMin",
		RolePriceMax:     "prices.amountMax",
		RoleAvailability: "prices.availability",
		RoleStore:        "prices.merchant",
		RoleCategory:     "categories",
		RoleURL:          "prices.sourceURLs",
		RoleWeight:       "weight",
		RoleBrand:        "brand",
		RoleImageURL:     "imageURLs",
	}
	for role, col := range want {
		got, ok := m.Column(role)
		assert.True(t, ok, "role %s should be bound", role)
		assert.Equal(t, col, got, "role %s", role)
	}
	assert.Empty(t, m.Missing())
}

func TestDetect_ColumnOrderWins(t *testing.T) {
	// "title" appears first in file order, so it beats "name" even though
	// "name" is the earlier candidate substring.
	m := Detect([]string{"Title", "Product Name"})
	col, ok := m.Column(RoleName)
	require.True(t, ok)
	assert.Equal(t, "Title", col)
}

func TestDetect_CaseInsensitive(t *testing.T) {
	m := Detect([]string{"PRODUCT_NAME", "MANUFACTURER", "In Stock"})
	col, _ := m.Column(RoleName)
	assert.Equal(t, "PRODUCT_NAME", col)
	col, _ = m.Column(RoleBrand)
	assert.Equal(t, "MANUFACTURER", col)
	col, _ = m.Column(RoleAvailability)
	assert.Equal(t, "In Stock", col)
}

func TestDetect_NoMatchLeavesRoleAbsent(t *testing.T) {
	m := Detect([]string{"sku", "colour"})
	for _, r := range Roles {
		_, ok := m.Column(r)
		assert.False(t, ok, "role %s", r)
	}
	assert.Len(t, m.Missing(), len(Roles))
}

func TestDetect_EmptySchema(t *testing.T) {
	m := Detect(nil)
	assert.False(t, m.Has(RoleName))
}

func TestMapping_With(t *testing.T) {
	m := Detect([]string{"name", "brand"})
	stripped := m.With(RoleBrand, "")

	assert.True(t, m.Has(RoleBrand), "original mapping is not modified")
	assert.False(t, stripped.Has(RoleBrand))
	assert.Equal(t, []Role{RolePriceMin, RolePriceMax, RoleAvailability, RoleStore,
		RoleCategory, RoleURL, RoleWeight, RoleBrand, RoleImageURL}, stripped.Missing())
}

func TestMapping_MarshalJSON(t *testing.T) {
	m := Detect([]string{"name", "brand"})
	b, err := json.Marshal(m)
	require.NoError(t, err)

	var got map[string]*string
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Len(t, got, len(Roles))
	require.NotNil(t, got["name"])
	assert.Equal(t, "name", *got["name"])
	assert.Nil(t, got["price_min"])
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "image_url", RoleImageURL.String())
	assert.Equal(t, "unknown", Role(42).String())
	assert.Equal(t, []string{"brand", "manufacturer"}, RoleBrand.Candidates())
}
