package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/session"
	"github.com/rcliao/product-support/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Delete a remembered session value",
		Args:  cobra.NoArgs,
		Run:   runForget,
	}

	cmd.Flags().StringP("key", "k", session.KeyLastProduct, "Key to delete")
	cmd.Flags().Bool("all-versions", false, "Delete all versions")
	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	memoryCmd.AddCommand(cmd)
}

func runForget(cmd *cobra.Command, args []string) {
	id := sessionFlag(cmd)
	key, _ := cmd.Flags().GetString("key")
	allVersions, _ := cmd.Flags().GetBool("all-versions")
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	err = s.Rm(cmd.Context(), store.RmParams{
		Session:     id,
		Key:         key,
		AllVersions: allVersions,
		Hard:        hard,
	})
	if err != nil {
		exitErr("forget", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"session":%q,"key":%q}`+"\n", id, key)
}
