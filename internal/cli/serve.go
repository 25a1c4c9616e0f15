package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/a2a"
	"github.com/rcliao/product-support/internal/catalog"
	"github.com/rcliao/product-support/internal/session"
	"github.com/rcliao/product-support/internal/support"
	"github.com/rcliao/product-support/internal/tools"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an agent server",
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Serve the product catalog agent",
		Args:  cobra.NoArgs,
		Run:   runServeCatalog,
	}
	catalogCmd.Flags().String("addr", "", "Listen address (default :8001)")
	catalogCmd.Flags().Bool("watch", false, "Reload the dataset when the file changes")

	supportCmd := &cobra.Command{
		Use:   "support",
		Short: "Serve the customer-support agent",
		Args:  cobra.NoArgs,
		Run:   runServeSupport,
	}
	supportCmd.Flags().String("addr", "", "Listen address (default :8000)")
	supportCmd.Flags().String("catalog-url", "", "Catalog agent base URL (default: $PRODUCT_CATALOG_BASE_URL or http://localhost:8001)")

	serveCmd.AddCommand(catalogCmd, supportCmd)
	RootCmd.AddCommand(serveCmd)
}

func runServeCatalog(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	watch, _ := cmd.Flags().GetBool("watch")

	cfg := loadConfig()
	if addr != "" {
		cfg.Catalog.Addr = addr
	}
	log := newLogger(cfg)
	h := openCatalog(cfg, log)

	if watch || cfg.Data.Watch {
		w, err := catalog.Watch(h, log, catalog.DefaultDebounce)
		if err != nil {
			exitErr("watch dataset", err)
		}
		defer w.Stop()
	}

	reg := tools.NewRegistry()
	if err := tools.RegisterCatalog(reg, h); err != nil {
		exitErr("register tools", err)
	}

	srv := a2a.NewServer(a2a.AgentConfig{
		Name: "product_catalog_agent",
		Description: "Looks up products in an electronics pricing dataset: name, brand, " +
			"category, price or price range, availability, store, weight and URLs.",
		URL:          cfg.Catalog.BaseURL,
		Version:      "1.0.0",
		DefaultSkill: tools.LookupProduct,
		DefaultArg:   "product_name",
		RateLimit:    cfg.RateLimit.RPS,
		Burst:        cfg.RateLimit.Burst,
	}, reg, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, cfg.Catalog.Addr); err != nil {
		exitErr("serve catalog", err)
	}
}

func runServeSupport(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	catalogURL, _ := cmd.Flags().GetString("catalog-url")

	cfg := loadConfig()
	if addr != "" {
		cfg.Support.Addr = addr
	}
	if catalogURL != "" {
		cfg.Catalog.BaseURL = catalogURL
	}
	log := newLogger(cfg)

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	agent := support.New(session.NewMemory(s), a2a.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout), log)
	reg := tools.NewRegistry()
	if err := agent.Register(reg); err != nil {
		exitErr("register tools", err)
	}

	log.Info().Str("catalog_url", cfg.Catalog.BaseURL).Msg("Using remote catalog agent")
	srv := a2a.NewServer(support.AgentConfig(localURL(cfg.Support.Addr), cfg.RateLimit.RPS, cfg.RateLimit.Burst), reg, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, cfg.Support.Addr); err != nil {
		exitErr("serve support", err)
	}
}

// localURL turns a listen address like ":8000" into a base URL for the card.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
