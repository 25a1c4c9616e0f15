package catalog

import (
	"encoding/json"

	"github.com/rcliao/product-support/internal/schema"
)

// MaxProducts caps the number of names returned by Products.
const MaxProducts = 20

// Status classifies the outcome of a query.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	// StatusUnsupported means a role the query needs is not mapped.
	StatusUnsupported
	// StatusInvalid means the caller's input was unusable.
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusUnsupported:
		return "unsupported"
	case StatusInvalid:
		return "invalid"
	}
	return "unknown"
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Value is a product attribute. OK is false when the role is unmapped or the
// row has no value for it.
type Value struct {
	Text string
	OK   bool
}

// Or returns the text, or def when the value is absent.
func (v Value) Or(def string) string {
	if !v.OK {
		return def
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.OK {
		return []byte("null"), nil
	}
	return json.Marshal(v.Text)
}

// Product is a row projected through the role mapping.
type Product struct {
	Name         Value `json:"name"`
	Brand        Value `json:"brand"`
	Category     Value `json:"category"`
	PriceMin     Value `json:"price_min"`
	PriceMax     Value `json:"price_max"`
	Availability Value `json:"availability"`
	Store        Value `json:"store"`
	Weight       Value `json:"weight"`
	URL          Value `json:"url"`
	ImageURL     Value `json:"image_url"`
}

// LookupResult is the outcome of Lookup. StatusUnsupported always means the
// dataset has no name column.
type LookupResult struct {
	Status  Status   `json:"status"`
	Query   string   `json:"query"`
	Product *Product `json:"product,omitempty"`
}

// ListKind names which listing produced a ListResult.
type ListKind string

const (
	ListCategories ListKind = "categories"
	ListBrands     ListKind = "brands"
	ListProducts   ListKind = "products"
)

// ListResult is the outcome of a discovery query.
type ListResult struct {
	Kind     ListKind `json:"kind"`
	Status   Status   `json:"status"`
	Items    []string `json:"items"`
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	// Missing names the unmapped role when Status is StatusUnsupported.
	Missing schema.Role `json:"-"`
}
