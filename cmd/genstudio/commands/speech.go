package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/audio/pcm"
	"github.com/genstudio/genstudio/pkg/cli"
	"github.com/genstudio/genstudio/pkg/gemini"
)

var speechCmd = &cobra.Command{
	Use:   "speech",
	Short: "Speech synthesis",
	Long: `Convert text to speech. The model returns 24 kHz mono PCM which
is written as a WAV file.`,
}

var speechSynthesizeCmd = &cobra.Command{
	Use:   "synthesize [text]",
	Short: "Synthesize speech from text",
	Long: `Synthesize speech.

Examples:
  genstudio speech synthesize "hello there" -o hello.wav
  genstudio speech synthesize -f speech.yaml --voice Kore -o out.wav`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var req gemini.SpeechRequest
		if inputFile != "" {
			if err := cli.LoadRequest(inputFile, &req); err != nil {
				return err
			}
		}
		if len(args) > 0 {
			req.Text = args[0]
		}
		if req.Text == "" {
			return fmt.Errorf("text is required")
		}
		if v, _ := cmd.Flags().GetString("voice"); v != "" {
			req.Voice = v
		}
		if req.Voice == "" && cliCtx.Voice != "" {
			req.Voice = cliCtx.Voice
		}

		ctx := context.Background()
		client, err := newClient(ctx, cliCtx)
		if err != nil {
			return err
		}

		resp, err := client.Speech.Synthesize(ctx, &req)
		if err != nil {
			return err
		}

		wav, err := pcm.EncodeWAV(resp.Audio, pcm.L16Mono24K)
		if err != nil {
			return err
		}
		path := outputFile
		if path == "" {
			path = "speech.wav"
		}
		if err := cli.OutputBytes(wav, path); err != nil {
			return err
		}
		printSuccess("Wrote %s (%s, %s)", path,
			cli.FormatBytes(int64(len(wav))),
			cli.FormatDuration(pcm.L16Mono24K.Duration(len(resp.Audio))))
		return nil
	},
}

func init() {
	speechSynthesizeCmd.Flags().String("voice", "", "prebuilt voice name, e.g. Kore")

	speechCmd.AddCommand(speechSynthesizeCmd)
}
