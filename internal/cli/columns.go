package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show which dataset column each product role was bound to",
		Args:  cobra.NoArgs,
		Run:   runColumns,
	}

	RootCmd.AddCommand(cmd)
}

func runColumns(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	h := openCatalog(cfg, newLogger(cfg))
	c := h.Current()

	printJSON(cmd.OutOrStdout(), map[string]any{
		"source":  c.Source(),
		"rows":    c.Len(),
		"columns": c.Dataset().Columns,
		"roles":   c.Mapping(),
	})
}
