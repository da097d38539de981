package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/gemini"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an audio file",
	Long: `Transcribe speech audio to text.

Supported inputs include WAV, MP3, FLAC, OGG and AAC files.

Examples:
  genstudio transcribe meeting.wav
  genstudio transcribe talk.mp3 --prompt "Label the speakers." --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}

		req := gemini.TranscribeRequest{
			Audio:    data,
			MIMEType: audioMIMEType(args[0]),
		}
		if v, _ := cmd.Flags().GetString("prompt"); v != "" {
			req.Prompt = v
		}
		if v, _ := cmd.Flags().GetString("model"); v != "" {
			req.Model = v
		}

		ctx := context.Background()
		client, err := newClient(ctx, cliCtx)
		if err != nil {
			return err
		}

		resp, err := client.Transcribe.Transcribe(ctx, &req)
		if err != nil {
			return err
		}
		if outputJSON || outputFile != "" {
			return outputResult(resp)
		}
		fmt.Println(resp.Text)
		return nil
	},
}

// audioMIMEType guesses an audio MIME type from the file extension.
func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".aac":
		return "audio/aac"
	default:
		return "audio/wav"
	}
}

func init() {
	transcribeCmd.Flags().String("prompt", "", "transcription instruction, e.g. asking for timestamps")
	transcribeCmd.Flags().String("model", "", "model to use")
}
