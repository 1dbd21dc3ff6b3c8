package textgen

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Options tune one generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Generator produces prose from a prompt. It is used only to phrase digests
// for sharing; scoring never depends on it.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// OpenAI is the default Generator backed by the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a generator. model may be empty to use gpt-4o-mini.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAI) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 600
	}
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("textgen: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("textgen: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// Static returns canned text; tests and offline runs use it.
type Static struct {
	Text string
	Err  error
}

func (s Static) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	return s.Text, s.Err
}
