package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest session values",
		Args:  cobra.NoArgs,
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("keys-only", false, "Only output session/key pairs")

	memoryCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("session")
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.List(cmd.Context(), store.ListParams{Session: id, Limit: limit})
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", e.Session, e.Key)
		}
		return
	}
	printJSON(cmd.OutOrStdout(), entries)
}
