package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/cli"
	"github.com/genstudio/genstudio/pkg/gemini"
	"github.com/genstudio/genstudio/pkg/history"
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Grounded text generation",
	Long: `Generate text, optionally grounded in web search or place data.

The prompt is given as an argument or loaded from a request file with -f.
Conversations are saved locally and can be resumed with --resume.

Example request file (chat.yaml):
  prompt: What's a good coffee place near the station?
  maps: true
  system: Answer briefly.

Examples:
  genstudio chat "explain goroutines"
  genstudio chat "what happened in tech today?" --search
  genstudio chat "and yesterday?" --resume 4f7c...
  genstudio chat -f chat.yaml --stream`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var req gemini.ChatRequest
		if inputFile != "" {
			if err := cli.LoadRequest(inputFile, &req); err != nil {
				return err
			}
		}
		if len(args) > 0 {
			req.Prompt = args[0]
		}
		if req.Prompt == "" {
			return fmt.Errorf("a prompt is required, as an argument or in the request file")
		}

		if v, _ := cmd.Flags().GetBool("search"); v {
			req.Search = true
		}
		if v, _ := cmd.Flags().GetBool("maps"); v {
			req.Maps = true
		}
		if v, _ := cmd.Flags().GetString("location"); v != "" {
			loc, err := parseLatLng(v)
			if err != nil {
				return err
			}
			req.Location = loc
		}
		if v, _ := cmd.Flags().GetString("system"); v != "" {
			req.System = v
		}
		if v, _ := cmd.Flags().GetString("model"); v != "" {
			req.Model = v
		}
		if req.Model == "" && cliCtx.Model != "" {
			req.Model = cliCtx.Model
		}

		resumeID, _ := cmd.Flags().GetString("resume")
		noSave, _ := cmd.Flags().GetBool("no-save")
		stream, _ := cmd.Flags().GetBool("stream")

		ctx := context.Background()

		var store *history.Store
		if !noSave || resumeID != "" {
			store, err = openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
		}

		sessionID := resumeID
		if resumeID != "" {
			messages, err := store.Messages(ctx, resumeID)
			if err != nil {
				return fmt.Errorf("resume session %s: %w", resumeID, err)
			}
			for _, msg := range messages {
				req.History = append(req.History, gemini.Message{
					Role: gemini.Role(msg.Role),
					Text: msg.Text,
				})
			}
			printVerbose("Resumed session %s with %d messages", resumeID, len(messages))
		}

		client, err := newClient(ctx, cliCtx)
		if err != nil {
			return err
		}

		var text string
		var citations []gemini.Citation
		if stream {
			for chunk, err := range client.Chat.GenerateStream(ctx, &req) {
				if err != nil {
					return err
				}
				if chunk.Text != "" {
					fmt.Print(chunk.Text)
					text += chunk.Text
				}
				if len(chunk.Citations) > 0 {
					citations = chunk.Citations
				}
			}
			fmt.Println()
		} else {
			resp, err := client.Chat.Generate(ctx, &req)
			if err != nil {
				return err
			}
			text = resp.Text
			citations = resp.Citations
			fmt.Println(strings.TrimSpace(text))
		}
		printCitations(citations)

		if !noSave {
			if sessionID == "" {
				sess, err := store.Create(ctx, sessionTitle(req.Prompt), req.Model)
				if err != nil {
					return err
				}
				sessionID = sess.ID
				printVerbose("Started session %s", sessionID)
			}
			if err := store.Append(ctx, sessionID, history.Message{Role: "user", Text: req.Prompt}); err != nil {
				return err
			}
			if err := store.Append(ctx, sessionID, history.Message{Role: "model", Text: text}); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "session: %s\n", sessionID)
		}
		return nil
	},
}

func printCitations(citations []gemini.Citation) {
	if len(citations) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "\nSources:")
	for i, c := range citations {
		title := c.Title
		if title == "" {
			title = c.URI
		}
		fmt.Fprintf(os.Stderr, "  [%d] (%s) %s <%s>\n", i+1, c.Kind, title, c.URI)
	}
}

// parseLatLng parses a "lat,lng" pair in decimal degrees.
func parseLatLng(s string) (*gemini.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid location %q, want \"lat,lng\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in %q", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in %q", s)
	}
	return &gemini.LatLng{Latitude: lat, Longitude: lng}, nil
}

// sessionTitle derives a short session label from the first prompt.
func sessionTitle(prompt string) string {
	title := strings.Join(strings.Fields(prompt), " ")
	if len(title) > 60 {
		title = title[:60]
	}
	return title
}

func init() {
	chatCmd.Flags().Bool("stream", false, "stream the response as it is generated")
	chatCmd.Flags().Bool("search", false, "ground the response in web search")
	chatCmd.Flags().Bool("maps", false, "ground the response in place data")
	chatCmd.Flags().String("location", "", "geolocation hint as \"lat,lng\" for grounded answers")
	chatCmd.Flags().String("system", "", "system instruction")
	chatCmd.Flags().String("model", "", "model to use")
	chatCmd.Flags().String("resume", "", "resume a stored session by ID")
	chatCmd.Flags().Bool("no-save", false, "do not store the conversation locally")
}
