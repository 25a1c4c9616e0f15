package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/product-support/internal/a2a"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [text...]",
		Short: "Send a message to an agent",
		Long: "Send a message to a running agent. Plain text goes to the agent's default skill; " +
			"--skill with --arg key=value calls a specific skill.",
		Run: runAsk,
	}

	cmd.Flags().String("url", "", "Agent base URL (default: the catalog agent)")
	cmd.Flags().String("skill", "", "Skill to invoke")
	cmd.Flags().StringP("session", "s", "", "Conversation (context) ID")
	cmd.Flags().StringArray("arg", nil, "Skill argument as key=value (repeatable)")
	cmd.Flags().Bool("card", false, "Print the agent card instead")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	url, _ := cmd.Flags().GetString("url")
	skill, _ := cmd.Flags().GetString("skill")
	sessionID, _ := cmd.Flags().GetString("session")
	rawArgs, _ := cmd.Flags().GetStringArray("arg")
	showCard, _ := cmd.Flags().GetBool("card")

	cfg := loadConfig()
	if url == "" {
		url = cfg.Catalog.BaseURL
	}
	client := a2a.NewClient(url, cfg.Catalog.Timeout)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout+5*time.Second)
	defer cancel()

	if showCard {
		card, err := client.Card(ctx)
		if err != nil {
			exitErr("fetch card", err)
		}
		printJSON(cmd.OutOrStdout(), card)
		return
	}

	var reply *a2a.Message
	var err error
	if skill != "" {
		skillArgs, perr := parseArgs(rawArgs)
		if perr != nil {
			exitErr("ask", perr)
		}
		reply, err = client.Invoke(ctx, sessionID, skill, skillArgs)
	} else {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			exitErr("ask", fmt.Errorf("text or --skill is required"))
		}
		reply, err = client.Ask(ctx, sessionID, text)
	}
	if err != nil {
		exitErr("ask", err)
	}

	if data, ok := reply.Data(); ok {
		printJSON(cmd.OutOrStdout(), data)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text())
	}
	if sessionID == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "session: %s\n", reply.ContextID)
	}
}

// parseArgs turns key=value pairs into skill arguments.
func parseArgs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --arg %q (want key=value)", p)
		}
		out[k] = v
	}
	return out, nil
}
