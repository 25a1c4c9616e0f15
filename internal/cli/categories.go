package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		Run:   runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	h := openCatalog(cfg, newLogger(cfg))

	fmt.Fprintln(cmd.OutOrStdout(), render.List(h.Current().Categories()))
}
