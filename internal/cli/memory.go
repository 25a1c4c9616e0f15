package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/session"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Read and write session memory directly",
}

func init() {
	memoryCmd.PersistentFlags().StringP("session", "s", "", "Session (context) ID")

	saveProductCmd := &cobra.Command{
		Use:   "save-product <product name...>",
		Short: "Remember the last product discussed",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSaveProduct,
	}
	lastProductCmd := &cobra.Command{
		Use:   "last-product",
		Short: "Show the last two products discussed",
		Args:  cobra.NoArgs,
		Run:   runLastProduct,
	}
	saveBrandCmd := &cobra.Command{
		Use:   "save-brand <brand...>",
		Short: "Remember the preferred brand",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSaveBrand,
	}
	brandCmd := &cobra.Command{
		Use:   "brand",
		Short: "Show the preferred brand",
		Args:  cobra.NoArgs,
		Run:   runBrand,
	}

	memoryCmd.AddCommand(saveProductCmd, lastProductCmd, saveBrandCmd, brandCmd)
	RootCmd.AddCommand(memoryCmd)
}

func sessionFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("session")
	if id == "" {
		exitErr("memory", session.ErrNoSession)
	}
	return id
}

func openMemory() (*session.Memory, func()) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	return session.NewMemory(s), func() { s.Close() }
}

func runSaveProduct(cmd *cobra.Command, args []string) {
	id := sessionFlag(cmd)
	mem, closeFn := openMemory()
	defer closeFn()

	p, err := mem.SaveLastProduct(cmd.Context(), id, strings.Join(args, " "))
	if err != nil {
		exitErr("save product", err)
	}
	printJSON(cmd.OutOrStdout(), p)
}

func runLastProduct(cmd *cobra.Command, args []string) {
	id := sessionFlag(cmd)
	mem, closeFn := openMemory()
	defer closeFn()

	p, err := mem.GetLastProduct(cmd.Context(), id)
	if err != nil {
		exitErr("last product", err)
	}
	printJSON(cmd.OutOrStdout(), p)
}

func runSaveBrand(cmd *cobra.Command, args []string) {
	id := sessionFlag(cmd)
	mem, closeFn := openMemory()
	defer closeFn()

	b, err := mem.SavePreferredBrand(cmd.Context(), id, strings.Join(args, " "))
	if err != nil {
		exitErr("save brand", err)
	}
	printJSON(cmd.OutOrStdout(), b)
}

func runBrand(cmd *cobra.Command, args []string) {
	id := sessionFlag(cmd)
	mem, closeFn := openMemory()
	defer closeFn()

	b, err := mem.GetPreferredBrand(cmd.Context(), id)
	if err != nil {
		exitErr("brand", err)
	}
	printJSON(cmd.OutOrStdout(), b)
}
