package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/session"
	"github.com/rcliao/product-support/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show every version of a session value",
		Args:  cobra.NoArgs,
		Run:   runHistory,
	}

	cmd.Flags().StringP("key", "k", session.KeyLastProduct, "Key to show")
	cmd.Flags().IntP("version", "v", 0, "Specific version number")

	memoryCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	id := sessionFlag(cmd)
	key, _ := cmd.Flags().GetString("key")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.Get(cmd.Context(), store.GetParams{
		Session: id,
		Key:     key,
		History: version == 0,
		Version: version,
	})
	if err != nil {
		exitErr("history", err)
	}

	if len(entries) == 1 && version > 0 {
		printJSON(cmd.OutOrStdout(), entries[0])
		return
	}
	printJSON(cmd.OutOrStdout(), entries)
}
