// Package support implements the customer-support agent: session memory
// skills served locally and catalog skills forwarded to the remote catalog
// agent.
package support

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcliao/product-support/internal/a2a"
	"github.com/rcliao/product-support/internal/session"
	"github.com/rcliao/product-support/internal/tools"
)

// Name is the agent's advertised name.
const Name = "customer_support_agent"

// Unavailable is returned in place of catalog answers when the catalog agent
// cannot be reached.
const Unavailable = "The product catalog is unavailable right now."

const productPrefix = "Product: "

// Catalog invokes skills on the remote catalog agent.
type Catalog interface {
	Invoke(ctx context.Context, contextID, skill string, args map[string]any) (*a2a.Message, error)
}

// Agent routes support skills.
type Agent struct {
	memory  *session.Memory
	catalog Catalog
	logger  zerolog.Logger
}

// New returns an agent using mem for session state and cat for product data.
func New(mem *session.Memory, cat Catalog, logger zerolog.Logger) *Agent {
	return &Agent{memory: mem, catalog: cat, logger: logger}
}

// Register adds the memory skills and the proxied catalog skills to r.
func (a *Agent) Register(r *tools.Registry) error {
	if err := tools.RegisterMemory(r, a.memory); err != nil {
		return err
	}
	for _, t := range tools.CatalogTools() {
		t.Handler = a.proxy(t.Name)
		if err := r.Register(t); err != nil {
			return fmt.Errorf("register proxied tools: %w", err)
		}
	}
	return nil
}

// AgentConfig describes the support agent for an a2a.Server.
func AgentConfig(url string, rps float64, burst int) a2a.AgentConfig {
	return a2a.AgentConfig{
		Name: Name,
		Description: "Customer support assistant that answers product questions from the " +
			"product catalog agent and remembers the last products discussed and the " +
			"user's preferred brand within a session.",
		URL:          url,
		Version:      "1.0.0",
		DefaultSkill: tools.LookupProduct,
		DefaultArg:   "product_name",
		RateLimit:    rps,
		Burst:        burst,
	}
}

func (a *Agent) proxy(skill string) tools.Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		contextID, _ := session.IDFrom(ctx)

		reply, err := a.catalog.Invoke(ctx, contextID, skill, args)
		if err != nil {
			var rpcErr *a2a.RPCError
			if errors.As(err, &rpcErr) {
				return nil, fmt.Errorf("catalog %s: %w", skill, err)
			}
			a.logger.Warn().Err(err).Str("skill", skill).Msg("Catalog agent unreachable")
			return Unavailable, nil
		}

		if data, ok := reply.Data(); ok {
			return data, nil
		}
		text := reply.Text()
		if skill == tools.LookupProduct && contextID != "" {
			a.remember(ctx, contextID, text)
		}
		return text, nil
	}
}

// remember records a successful lookup as the session's last product.
func (a *Agent) remember(ctx context.Context, contextID, text string) {
	first, _, _ := strings.Cut(text, "\n")
	if !strings.HasPrefix(first, productPrefix) {
		return
	}
	name := strings.TrimPrefix(first, productPrefix)
	if name == "" || name == "Unknown" {
		return
	}
	if _, err := a.memory.SaveLastProduct(ctx, contextID, name); err != nil {
		a.logger.Error().Err(err).Str("context_id", contextID).Msg("Failed to remember product")
	}
}
