package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lookup <product name...>",
		Short: "Look up a product by name",
		Long:  "Look up a product by exact or partial name. The cheapest match wins.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runLookup,
	}

	RootCmd.AddCommand(cmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	h := openCatalog(cfg, newLogger(cfg))

	res := h.Current().Lookup(strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), render.Lookup(res))
}
