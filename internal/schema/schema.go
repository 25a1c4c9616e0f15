// Package schema maps semantic product roles onto the columns of a dataset
// whose layout is not known in advance.
package schema

import (
	"encoding/json"
	"strings"
)

// Role is a semantic product attribute.
type Role int

const (
	RoleName Role = iota
	RolePriceMin
	RolePriceMax
	RoleAvailability
	RoleStore
	RoleCategory
	RoleURL
	RoleWeight
	RoleBrand
	RoleImageURL

	roleCount
)

// Roles lists every role in detection order.
var Roles = []Role{
	RoleName, RolePriceMin, RolePriceMax, RoleAvailability, RoleStore,
	RoleCategory, RoleURL, RoleWeight, RoleBrand, RoleImageURL,
}

var roleNames = [roleCount]string{
	RoleName:         "name",
	RolePriceMin:     "price_min",
	RolePriceMax:     "price_max",
	RoleAvailability: "availability",
	RoleStore:        "store",
	RoleCategory:     "category",
	RoleURL:          "url",
	RoleWeight:       "weight",
	RoleBrand:        "brand",
	RoleImageURL:     "image_url",
}

// candidates holds the lowercase substrings that identify each role.
var candidates = [roleCount][]string{
	RoleName:         {"name", "title"},
	RolePriceMin:     {"amountmin", "pricemin", "min"},
	RolePriceMax:     {"amountmax", "pricemax", "max"},
	RoleAvailability: {"availability", "instock", "in stock"},
	RoleStore:        {"merchant", "store", "source"},
	RoleCategory:     {"category", "categories"},
	RoleURL:          {"url", "link"},
	RoleWeight:       {"weight"},
	RoleBrand:        {"brand", "manufacturer"},
	RoleImageURL:     {"imageurl", "imageurls", "picture", "img"},
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return "unknown"
	}
	return roleNames[r]
}

// Candidates returns the substrings used to detect r.
func (r Role) Candidates() []string {
	if r < 0 || r >= roleCount {
		return nil
	}
	return append([]string(nil), candidates[r]...)
}

// Mapping binds each role to at most one column. The zero value has every
// role unbound.
type Mapping struct {
	cols [roleCount]string
}

// Detect scans columns in order and binds each role to the first column
// whose lowercased name contains one of the role's candidate substrings.
func Detect(columns []string) Mapping {
	var m Mapping
	for _, r := range Roles {
		m.cols[r] = findColumn(columns, candidates[r])
	}
	return m
}

func findColumn(columns []string, subs []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return col
			}
		}
	}
	return ""
}

// Column returns the column bound to r. ok is false when the role is absent.
func (m Mapping) Column(r Role) (col string, ok bool) {
	if r < 0 || r >= roleCount {
		return "", false
	}
	return m.cols[r], m.cols[r] != ""
}

// Has reports whether r is bound.
func (m Mapping) Has(r Role) bool {
	_, ok := m.Column(r)
	return ok
}

// With returns a copy of m with r bound to col. An empty col unbinds r.
func (m Mapping) With(r Role, col string) Mapping {
	if r >= 0 && r < roleCount {
		m.cols[r] = col
	}
	return m
}

// Missing returns the unbound roles in detection order.
func (m Mapping) Missing() []Role {
	var out []Role
	for _, r := range Roles {
		if !m.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON renders the mapping as role -> column, with null for absent roles.
func (m Mapping) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, roleCount)
	for _, r := range Roles {
		if col, ok := m.Column(r); ok {
			out[r.String()] = &col
		} else {
			out[r.String()] = nil
		}
	}
	return json.Marshal(out)
}
