package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session database statistics",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	memoryCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), cfg.Store.Path)
	if err != nil {
		exitErr("stats", err)
	}
	printJSON(cmd.OutOrStdout(), stats)
}
