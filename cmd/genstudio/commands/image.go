package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genstudio/genstudio/pkg/cli"
	"github.com/genstudio/genstudio/pkg/gemini"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Image generation and editing",
	Long: `Generate images from text prompts, or edit an existing image
with a text instruction.

Example request file (image.yaml):
  prompt: A watercolor painting of a lighthouse at dusk
  count: 2
  aspect_ratio: "16:9"`,
}

var imageGenerateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate images from a prompt",
	Long: `Generate one or more images.

Examples:
  genstudio image generate "a red bicycle" -o bike.png
  genstudio image generate -f image.yaml -o out.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		var req gemini.ImageRequest
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
		if v, _ := cmd.Flags().GetInt32("count"); v > 0 {
			req.Count = v
		}
		if v, _ := cmd.Flags().GetString("aspect-ratio"); v != "" {
			req.AspectRatio = v
		}

		ctx := context.Background()
		client, err := newClient(ctx, cliCtx)
		if err != nil {
			return err
		}

		printVerbose("Generating %d image(s)", max(int(req.Count), 1))
		resp, err := client.Image.Generate(ctx, &req)
		if err != nil {
			return err
		}
		return saveImages(resp.Images)
	},
}

var imageEditCmd = &cobra.Command{
	Use:   "edit <image-file> <instruction>",
	Short: "Edit an image with a text instruction",
	Long: `Apply a text instruction to an existing image.

Examples:
  genstudio image edit photo.png "remove the background" -o edited.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cliCtx, err := getContext()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		ctx := context.Background()
		client, err := newClient(ctx, cliCtx)
		if err != nil {
			return err
		}

		result, err := client.Image.Edit(ctx, &gemini.ImageEditRequest{
			Prompt:   args[1],
			Image:    data,
			MIMEType: mimeTypeForFile(args[0]),
		})
		if err != nil {
			return err
		}
		return saveImages([]gemini.GeneratedImage{*result})
	},
}

// saveImages writes images to the -o path; multiple images get a
// numeric suffix. Without -o a default name is used.
func saveImages(images []gemini.GeneratedImage) error {
	base := outputFile
	if base == "" {
		base = "image.png"
	}
	for i, img := range images {
		path := base
		if len(images) > 1 {
			ext := filepath.Ext(base)
			path = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), i+1, ext)
		}
		if err := cli.OutputBytes(img.Data, path); err != nil {
			return err
		}
		printSuccess("Wrote %s (%s)", path, cli.FormatBytes(int64(len(img.Data))))
	}
	return nil
}

// mimeTypeForFile guesses an image MIME type from the file extension.
func mimeTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

func init() {
	imageGenerateCmd.Flags().Int32("count", 0, "number of images to generate")
	imageGenerateCmd.Flags().String("aspect-ratio", "", "aspect ratio, e.g. 16:9")

	imageCmd.AddCommand(imageGenerateCmd)
	imageCmd.AddCommand(imageEditCmd)
}
