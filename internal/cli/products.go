package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List up to 20 product names",
		Args:  cobra.NoArgs,
		Run:   runProducts,
	}

	cmd.Flags().String("category", "", "Filter by category word")
	cmd.Flags().String("brand", "", "Filter by exact brand (case-insensitive)")

	RootCmd.AddCommand(cmd)
}

func runProducts(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	brand, _ := cmd.Flags().GetString("brand")

	cfg := loadConfig()
	h := openCatalog(cfg, newLogger(cfg))

	fmt.Fprintln(cmd.OutOrStdout(), render.List(h.Current().Products(category, brand)))
}
