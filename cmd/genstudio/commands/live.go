package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/audio/device"
	"github.com/genstudio/genstudio/pkg/cli"
	"github.com/genstudio/genstudio/pkg/duplex"
	"github.com/genstudio/genstudio/pkg/live"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Realtime voice conversation",
	Long: `Hold a realtime voice conversation with the model.

Microphone audio is streamed up while the model's voice plays through
the speaker. Requires ffmpeg and ffplay on PATH. Press Ctrl-C to hang
up.

Examples:
  genstudio live
  genstudio live --voice Puck --system "You are a travel guide."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}
		apiKey, err := cliCtx.ResolveAPIKey()
		if err != nil {
			return err
		}

		model, _ := cmd.Flags().GetString("model")
		voice, _ := cmd.Flags().GetString("voice")
		system, _ := cmd.Flags().GetString("system")
		micRate, _ := cmd.Flags().GetInt("mic-rate")
		maxAhead, _ := cmd.Flags().GetDuration("max-buffer")
		if voice == "" {
			voice = cliCtx.Voice
		}

		mic, err := device.OpenMicrophone(device.MicrophoneConfig{SampleRate: micRate})
		if err != nil {
			return fmt.Errorf("open microphone: %w", err)
		}
		defer mic.Close()

		speaker, err := device.OpenSpeaker(device.SpeakerConfig{})
		if err != nil {
			return fmt.Errorf("open speaker: %w", err)
		}
		defer speaker.Close()

		var liveOpts []live.ClientOption
		if cliCtx.BaseURL != "" {
			liveOpts = append(liveOpts, live.WithEndpoint(cliCtx.BaseURL))
		}
		client := live.NewClient(apiKey, liveOpts...)

		styles := cli.NewStyles(cli.DefaultTheme)
		transcript := cli.NewTranscript(200)

		pipe := duplex.New(duplex.Config{
			Dial: func(ctx context.Context) (duplex.Session, error) {
				return client.Connect(ctx, &live.Config{
					Model:        model,
					Voice:        voice,
					SystemPrompt: system,
				})
			},
			Source:   mic,
			Sink:     speaker,
			MaxAhead: maxAhead,
			OnEvent: func(event *live.Event) {
				switch event.Type {
				case live.EventText:
					transcript.AppendToLast(event.Text)
				case live.EventTurnComplete:
					lines := transcript.Lines()
					if n := len(lines); n > 0 && lines[n-1] != "" {
						fmt.Printf("\r\033[K%s %s\n", styles.Label.Render("model:"), lines[n-1])
					}
					transcript.Add("")
				case live.EventGoAway:
					fmt.Printf("\r\033[K%s\n", styles.Alert.Render("server is closing the connection"))
				}
			},
		})

		printInfo("Connecting...")
		if err := pipe.Connect(context.Background()); err != nil {
			return err
		}
		defer pipe.Disconnect()
		printSuccess("Live. Speak into the microphone; Ctrl-C to hang up.")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		var lastStatus string
		for {
			select {
			case <-sig:
				fmt.Println()
				printInfo("Hanging up.")
				return pipe.Disconnect()
			case <-ticker.C:
				state := pipe.State()
				if state == duplex.StateDisconnected || state == duplex.StateError {
					fmt.Println()
					if state == duplex.StateError {
						return fmt.Errorf("session ended unexpectedly")
					}
					printInfo("Session ended.")
					return nil
				}
				status := cli.StatusLine(styles, state.String(), pipe.Level())
				if status != lastStatus {
					fmt.Printf("\r\033[K%s", status)
					lastStatus = status
				}
			}
		}
	},
}

func init() {
	liveCmd.Flags().String("model", "", "live model to use")
	liveCmd.Flags().String("voice", "", "prebuilt voice name")
	liveCmd.Flags().String("system", "", "system instruction")
	liveCmd.Flags().Int("mic-rate", 16000, "microphone capture rate in Hz")
	liveCmd.Flags().Duration("max-buffer", 0, "cap on scheduled-ahead playback (0 = unbounded)")
}
