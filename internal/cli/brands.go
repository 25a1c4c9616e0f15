package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List brands",
		Args:  cobra.NoArgs,
		Run:   runBrands,
	}

	cmd.Flags().String("category", "", "Only brands with a category sharing a word with this")

	RootCmd.AddCommand(cmd)
}

func runBrands(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")

	cfg := loadConfig()
	h := openCatalog(cfg, newLogger(cfg))

	fmt.Fprintln(cmd.OutOrStdout(), render.List(h.Current().Brands(category)))
}
