package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the catalog tools as OpenAI function definitions",
		Args:  cobra.NoArgs,
		Run:   runTools,
	}

	RootCmd.AddCommand(cmd)
}

func runTools(cmd *cobra.Command, args []string) {
	r := tools.NewRegistry()
	for _, t := range tools.CatalogTools() {
		t.Handler = func(context.Context, map[string]any) (any, error) { return nil, nil }
		if err := r.Register(t); err != nil {
			exitErr("register tools", err)
		}
	}
	printJSON(cmd.OutOrStdout(), r.OpenAITools())
}
