package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session memory as JSON",
		Long:  "Export every live version of every session value. Filter by session with -s.",
		Args:  cobra.NoArgs,
		Run:   runExport,
	}

	memoryCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("session")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.ExportAll(cmd.Context(), id)
	if err != nil {
		exitErr("export", err)
	}
	if entries == nil {
		printJSON(cmd.OutOrStdout(), []any{})
		return
	}
	printJSON(cmd.OutOrStdout(), entries)
}
