package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions with stored values",
		Args:  cobra.NoArgs,
		Run:   runSessions,
	}

	memoryCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats(cmd.Context(), cfg.Store.Path)
	if err != nil {
		exitErr("list sessions", err)
	}
	printJSON(cmd.OutOrStdout(), st.Sessions)
}
