// Package main provides the genstudio CLI tool.
//
// Usage:
//
//	genstudio [flags] <service> <command> [args]
//
// Services:
//
//	chat        - Grounded text generation
//	image       - Image generation and editing
//	video       - Video generation
//	speech      - Speech synthesis
//	transcribe  - Audio transcription
//	live        - Realtime voice conversation
//	sessions    - Stored conversation management
//	config      - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.genstudio/
//	Use 'genstudio config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/genstudio/genstudio/cmd/genstudio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
