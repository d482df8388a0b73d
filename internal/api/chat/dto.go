package chat

import (
	"HomeyChat/internal/entity"
)

type Message struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-style payload accepted on
// /v1/chat/completions. Unknown fields are ignored; the fallback path
// forwards the conversation to the provider as-is.
type ChatCompletionRequest struct {
	Messages    []Message `json:"messages" validate:"required,min=1,dive"`
	Model       string    `json:"model" validate:"required"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
}

// ChatOutcome says whether a skill handled the message. When Handled is
// false the handler relays the conversation to the completion provider.
type ChatOutcome struct {
	Handled bool   `json:"handled"`
	Reply   string `json:"reply,omitempty"`
	Skill   string `json:"skill,omitempty"`
}

// Completion mirrors the provider's completion object so skill answers
// are indistinguishable from model answers to the caller.
type Completion struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
}

type CompletionChoice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

type CompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionChunk is one SSE frame of a streamed completion, shaped
// like the provider's chunk objects so streaming clients need no
// special casing for skill answers.
type CompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type ChunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

type HealthResponse struct {
	Status             string   `json:"status"`
	FunctionsLoaded    int      `json:"functions_loaded"`
	AvailableFunctions []string `json:"available_functions"`
}

type FunctionInfo struct {
	Descriptions []string `json:"descriptions"`
}

type ReloadResponse struct {
	Status          string `json:"status"`
	FunctionsLoaded int    `json:"functions_loaded"`
}

type DevicesResponse struct {
	Rooms map[string][]entity.Device `json:"rooms"`
}

type HistoryResponse struct {
	Commands []entity.CommandRecord `json:"commands"`
	Total    int                    `json:"total"`
}
