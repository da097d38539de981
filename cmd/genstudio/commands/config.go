package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple API configurations,
similar to kubectl's context management.

Configuration is stored in ~/.genstudio/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Example:
  genstudio config add-context myctx --api-key YOUR_API_KEY
  genstudio config add-context work --api-key KEY --model gemini-2.5-pro --voice Puck`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		apiKey, err := cmd.Flags().GetString("api-key")
		if err != nil {
			return fmt.Errorf("failed to read 'api-key' flag: %w", err)
		}
		if apiKey == "" {
			return fmt.Errorf("--api-key is required")
		}
		baseURL, _ := cmd.Flags().GetString("base-url")
		timeout, _ := cmd.Flags().GetInt("timeout")
		model, _ := cmd.Flags().GetString("model")
		voice, _ := cmd.Flags().GetString("voice")

		ctx := &cli.Context{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Timeout: timeout,
			Model:   model,
			Voice:   voice,
		}
		if err := getConfig().AddContext(name, ctx); err != nil {
			return err
		}
		printSuccess("Context %q added", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		printSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		printSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		names := cfg.ListContexts()
		if len(names) == 0 {
			printInfo("No contexts configured. Add one with 'genstudio config add-context'.")
			return nil
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tAPI KEY\tMODEL\tVOICE")
		for _, name := range names {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				current, name, cli.MaskAPIKey(ctx.APIKey), ctx.Model, ctx.Voice)
		}
		return w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active context",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}
		return outputResult(map[string]any{
			"name":     ctx.Name,
			"api_key":  cli.MaskAPIKey(ctx.APIKey),
			"base_url": ctx.BaseURL,
			"model":    ctx.Model,
			"voice":    ctx.Voice,
		})
	},
}

func init() {
	configAddContextCmd.Flags().String("api-key", "", "API key (required)")
	configAddContextCmd.Flags().String("base-url", "", "custom API base URL")
	configAddContextCmd.Flags().Int("timeout", 0, "request timeout in seconds")
	configAddContextCmd.Flags().String("model", "", "default chat model")
	configAddContextCmd.Flags().String("voice", "", "default voice for speech and live")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configShowCmd)
}
