package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/cli"
	"github.com/genstudio/genstudio/pkg/gemini"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	inputFile   string
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "genstudio",
	Short: "Generative AI studio CLI",
	Long: `genstudio - A command line interface for Google's generative AI services.

This tool lets you:
  - Chat with grounding (web search, places) and resumable sessions
  - Generate and edit images
  - Generate videos
  - Synthesize speech (TTS)
  - Transcribe audio
  - Hold a realtime voice conversation from the terminal

Configuration is stored in ~/.genstudio/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Set up a context
  genstudio config add-context myctx --api-key YOUR_API_KEY

  # Chat with web grounding
  genstudio -c myctx chat "what happened in tech today?" --search

  # Talk to the model
  genstudio -c myctx live
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.genstudio/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(speechCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg.ResolveContext(contextName)
}

// newClient creates an API client from context configuration
func newClient(ctx context.Context, cliCtx *cli.Context) (*gemini.Client, error) {
	apiKey, err := cliCtx.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	var opts []gemini.Option
	if cliCtx.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cliCtx.BaseURL))
	}
	if cliCtx.Timeout > 0 {
		opts = append(opts, gemini.WithTimeout(time.Duration(cliCtx.Timeout)*time.Second))
	}
	return gemini.NewClient(ctx, apiKey, opts...)
}

// outputResult outputs the result using cli package
func outputResult(result any) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputFile,
	})
}

func printSuccess(format string, args ...any) {
	cli.PrintSuccess(format, args...)
}

func printInfo(format string, args ...any) {
	cli.PrintInfo(format, args...)
}

func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
