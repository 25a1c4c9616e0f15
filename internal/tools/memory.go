package tools

import (
	"context"
	"fmt"

	"github.com/rcliao/product-support/internal/session"
)

// Session memory tool names.
const (
	SaveLastProduct    = "save_last_product"
	GetLastProduct     = "get_last_product"
	SavePreferredBrand = "save_preferred_brand"
	GetPreferredBrand  = "get_preferred_brand"
)

// RegisterMemory registers the session memory tools. The session ID is
// taken from the call context (see session.WithID).
func RegisterMemory(r *Registry, m *session.Memory) error {
	list := []Tool{
		{
			Name:        SaveLastProduct,
			Description: "Remember the product the user just asked about. The previous product becomes the second-last one.",
			Params: []Param{
				{Name: "product_name", Type: "string", Description: "Product name to remember", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := sessionID(ctx)
				if err != nil {
					return nil, err
				}
				return m.SaveLastProduct(ctx, id, String(args, "product_name"))
			},
		},
		{
			Name:        GetLastProduct,
			Description: "Recall the last and second-last products discussed in this session.",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				id, err := sessionID(ctx)
				if err != nil {
					return nil, err
				}
				return m.GetLastProduct(ctx, id)
			},
		},
		{
			Name:        SavePreferredBrand,
			Description: "Remember the user's preferred brand.",
			Params: []Param{
				{Name: "brand_name", Type: "string", Description: "Brand the user prefers", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := sessionID(ctx)
				if err != nil {
					return nil, err
				}
				return m.SavePreferredBrand(ctx, id, String(args, "brand_name"))
			},
		},
		{
			Name:        GetPreferredBrand,
			Description: "Recall the user's preferred brand.",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				id, err := sessionID(ctx)
				if err != nil {
					return nil, err
				}
				return m.GetPreferredBrand(ctx, id)
			},
		},
	}

	for _, t := range list {
		if err := r.Register(t); err != nil {
			return fmt.Errorf("register memory tools: %w", err)
		}
	}
	return nil
}

func sessionID(ctx context.Context) (string, error) {
	id, ok := session.IDFrom(ctx)
	if !ok {
		return "", session.ErrNoSession
	}
	return id, nil
}
