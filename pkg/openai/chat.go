package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

// IChatGPT relays conversations to the chat-completion provider when no
// skill matched. Requests are passed through as-is; only max_tokens is
// capped per model before sending.
type IChatGPT interface {
	CreateCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
	AdjustMaxTokens(req *openai.ChatCompletionRequest)
}

type chatGPTService struct {
	client *openai.Client
}

// Completion ceilings per model; anything unknown gets the default.
var modelTokenLimits = map[string]int{
	openai.GPT4:          8192,
	"gpt-4-1106-preview": 4096,
	"gpt-4-32k":          32768,
	openai.GPT3Dot5Turbo: 4096,
	"gpt-3.5-turbo-16k":  16384,
}

const defaultTokenLimit = 4096

func NewChatGPT() (IChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	return &chatGPTService{
		client: openai.NewClient(apiKey),
	}, nil
}

func (c *chatGPTService) CreateCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	c.AdjustMaxTokens(&req)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("chat completion error: %w", err)
	}

	return resp, nil
}

func (c *chatGPTService) CreateCompletionStream(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (*openai.ChatCompletionStream, error) {
	c.AdjustMaxTokens(&req)
	req.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion stream error: %w", err)
	}

	return stream, nil
}

func (c *chatGPTService) AdjustMaxTokens(req *openai.ChatCompletionRequest) {
	limit, ok := modelTokenLimits[req.Model]
	if !ok {
		limit = defaultTokenLimit
	}

	if req.MaxTokens == 0 || req.MaxTokens > limit {
		req.MaxTokens = limit
	}
}
