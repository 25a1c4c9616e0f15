package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import session memory from JSON",
		Long: "Import session values produced by export, from --file or stdin. Values are " +
			"replayed as new versions. With -s only that session's values are imported.",
		Args: cobra.NoArgs,
		Run:  runImport,
	}

	cmd.Flags().StringP("file", "f", "", "Read from file instead of stdin")

	memoryCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	only, _ := cmd.Flags().GetString("session")

	var in io.Reader = cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			exitErr("open import file", err)
		}
		defer f.Close()
		in = f
	}

	entries, skipped, err := decodeEntries(in, only)
	if err != nil {
		exitErr("parse import", err)
	}

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), entries)
	if err != nil {
		exitErr("import", err)
	}

	printJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "imported": imported, "skipped": skipped})
}

// decodeEntries reads an export document, keeping only session's entries when
// session is set. Entries without a session or key are rejected.
func decodeEntries(r io.Reader, session string) ([]model.Entry, int, error) {
	var all []model.Entry
	if err := json.NewDecoder(r).Decode(&all); err != nil {
		return nil, 0, fmt.Errorf("decode json: %w", err)
	}

	kept := all[:0]
	skipped := 0
	for i, e := range all {
		if e.Session == "" || e.Key == "" {
			return nil, 0, fmt.Errorf("entry %d: session and key are required", i)
		}
		if session != "" && e.Session != session {
			skipped++
			continue
		}
		kept = append(kept, e)
	}
	return kept, skipped, nil
}
