// Package llmclient is the ai/llm-lane collaborator spec.md §1 carves out
// as external: a thin streaming wrapper over the OpenAI chat-completions
// API, consumed by internal/appio behind the AppIO.AskLLM/AskLLMInline
// contract so the reducer in internal/app never touches it directly.
package llmclient

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"
)

// Client streams chat completions one chunk at a time.
type Client struct {
	inner *openai.Client
}

// New builds a Client from an API key.
func New(apiKey string) *Client {
	return &Client{inner: openai.NewClient(apiKey)}
}

// Request is one streaming chat-completion call.
type Request struct {
	Model        string
	SystemPrompt string
	Prompt       string
}

// Stream runs req and invokes onChunk for every delta received, returning
// once the stream ends or ctx is cancelled. It never panics on an API or
// network failure; the error is returned for the caller to translate into
// spec.md §7's LLMStreamError.
func (c *Client) Stream(ctx context.Context, req Request, onChunk func(string)) error {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	stream, err := c.inner.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if len(resp.Choices) == 0 {
			continue
		}

		if delta := resp.Choices[0].Delta.Content; delta != "" {
			onChunk(delta)
		}
	}
}
