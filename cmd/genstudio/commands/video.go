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

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Video generation",
	Long: `Generate videos from text prompts. Generation is a long-running
operation: the command polls until the video is ready or the timeout
expires.

Example request file (video.yaml):
  prompt: A drone shot over a foggy forest at sunrise
  aspect_ratio: "16:9"`,
}

var videoGenerateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate a video from a prompt",
	Long: `Generate a video. The operation is polled every 5 seconds by
default until it completes.

Examples:
  genstudio video generate "waves crashing on rocks" -o waves.mp4
  genstudio video generate -f video.yaml --timeout 15m -o out.mp4`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var req gemini.VideoRequest
		if inputFile != "" {
			if err := cli.LoadRequest(inputFile, &req); err != nil {
				return err
			}
		}
		if len(args) > 0 {
			req.Prompt = args[0]
		}
		if req.Prompt == "" {
			return fmt.Errorf("a prompt is required")
		}
		if v, _ := cmd.Flags().GetString("image"); v != "" {
			data, err := os.ReadFile(v)
			if err != nil {
				return fmt.Errorf("read conditioning image: %w", err)
			}
			req.Image = data
			req.ImageMIMEType = mimeTypeForFile(v)
		}

		timeout, _ := cmd.Flags().GetDuration("timeout")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		client, err := newClient(ctx, cliCtx)
		if err != nil {
			return err
		}

		start := time.Now()
		task, err := client.Video.Generate(ctx, &req)
		if err != nil {
			return err
		}
		printInfo("Operation %s started, polling every %s", task.ID, interval)

		result, err := task.WaitWithInterval(ctx, interval)
		if err != nil {
			return err
		}
		printVerbose("Generation took %s", cli.FormatDuration(time.Since(start)))

		path := outputFile
		if path == "" {
			path = "video.mp4"
		}
		if err := cli.OutputBytes(result.Data, path); err != nil {
			return err
		}
		printSuccess("Wrote %s (%s)", path, cli.FormatBytes(int64(len(result.Data))))
		return nil
	},
}

func init() {
	videoGenerateCmd.Flags().String("image", "", "first-frame conditioning image file")
	videoGenerateCmd.Flags().Duration("timeout", 10*time.Minute, "overall generation timeout")
	videoGenerateCmd.Flags().Duration("interval", gemini.DefaultPollInterval, "polling interval")

	videoCmd.AddCommand(videoGenerateCmd)
}
