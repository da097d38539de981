// Package gemini is a client for Google's generative AI services:
// grounded chat, image generation and editing, video generation,
// speech synthesis and audio transcription.
//
// The client is organized into services:
//
//	client, err := gemini.NewClient(ctx, apiKey)
//	if err != nil {
//		return err
//	}
//	resp, err := client.Chat.Generate(ctx, &gemini.ChatRequest{
//		Prompt: "What happened in the news today?",
//		Search: true,
//	})
//
// Video generation is a long-running operation surfaced as a Task that
// is polled until completion:
//
//	task, err := client.Video.Generate(ctx, &gemini.VideoRequest{Prompt: "..."})
//	result, err := task.Wait(ctx)
package gemini
