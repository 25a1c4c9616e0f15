// Package session remembers per-conversation facts for the support agent:
// the last two products discussed and the user's preferred brand.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rcliao/product-support/internal/store"
)

// Keys under which session values are stored.
const (
	KeyLastProduct       = "user:last_product"
	KeySecondLastProduct = "user:second_last_product"
	KeyPreferredBrand    = "user:preferred_brand"
)

// StatusSaved is reported by the save operations.
const StatusSaved = "saved"

// ErrNoSession is returned when an operation is called without a session ID.
var ErrNoSession = errors.New("session id is required")

// Products is the remembered product history. Nil fields are unknown.
type Products struct {
	Status            string  `json:"status,omitempty"`
	LastProduct       *string `json:"last_product"`
	SecondLastProduct *string `json:"second_last_product"`
}

// Brand is the remembered brand preference.
type Brand struct {
	Status         string  `json:"status,omitempty"`
	PreferredBrand *string `json:"preferred_brand"`
}

// Memory reads and writes session values through a Store.
type Memory struct {
	store store.Store
	mu    sync.Mutex
}

// NewMemory returns a Memory backed by s.
func NewMemory(s store.Store) *Memory {
	return &Memory{store: s}
}

// SaveLastProduct records name as the last product. When a different
// product was last, it becomes the second-last in the same write. Blank
// names leave the state unchanged.
func (m *Memory) SaveLastProduct(ctx context.Context, sessionID, name string) (Products, error) {
	if sessionID == "" {
		return Products{}, ErrNoSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if name != "" {
		prev, err := m.get(ctx, sessionID, KeyLastProduct)
		if err != nil {
			return Products{}, err
		}

		puts := []store.PutParams{{Session: sessionID, Key: KeyLastProduct, Value: name}}
		if prev != nil && *prev != name {
			puts = append([]store.PutParams{{Session: sessionID, Key: KeySecondLastProduct, Value: *prev}}, puts...)
		}
		if _, err := m.store.PutBatch(ctx, puts); err != nil {
			return Products{}, fmt.Errorf("save last product: %w", err)
		}
	}

	p, err := m.products(ctx, sessionID)
	if err != nil {
		return Products{}, err
	}
	p.Status = StatusSaved
	return p, nil
}

// GetLastProduct returns the last and second-last products.
func (m *Memory) GetLastProduct(ctx context.Context, sessionID string) (Products, error) {
	if sessionID == "" {
		return Products{}, ErrNoSession
	}
	return m.products(ctx, sessionID)
}

// SavePreferredBrand records brand. Blank brands leave the state unchanged.
func (m *Memory) SavePreferredBrand(ctx context.Context, sessionID, brand string) (Brand, error) {
	if sessionID == "" {
		return Brand{}, ErrNoSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	brand = strings.TrimSpace(brand)
	if brand != "" {
		if _, err := m.store.Put(ctx, store.PutParams{Session: sessionID, Key: KeyPreferredBrand, Value: brand}); err != nil {
			return Brand{}, fmt.Errorf("save preferred brand: %w", err)
		}
	}

	b, err := m.GetPreferredBrand(ctx, sessionID)
	if err != nil {
		return Brand{}, err
	}
	b.Status = StatusSaved
	return b, nil
}

// GetPreferredBrand returns the preferred brand.
func (m *Memory) GetPreferredBrand(ctx context.Context, sessionID string) (Brand, error) {
	if sessionID == "" {
		return Brand{}, ErrNoSession
	}
	v, err := m.get(ctx, sessionID, KeyPreferredBrand)
	if err != nil {
		return Brand{}, err
	}
	return Brand{PreferredBrand: v}, nil
}

func (m *Memory) products(ctx context.Context, sessionID string) (Products, error) {
	last, err := m.get(ctx, sessionID, KeyLastProduct)
	if err != nil {
		return Products{}, err
	}
	second, err := m.get(ctx, sessionID, KeySecondLastProduct)
	if err != nil {
		return Products{}, err
	}
	return Products{LastProduct: last, SecondLastProduct: second}, nil
}

func (m *Memory) get(ctx context.Context, sessionID, key string) (*string, error) {
	entries, err := m.store.Get(ctx, store.GetParams{Session: sessionID, Key: key})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	v := entries[0].Value
	return &v, nil
}
