package chat

import "HomeyChat/pkg/response"

var (
	ErrEmptyMessages      = response.NewError(400, "messages cannot be empty")
	ErrEmptyUserMessage   = response.NewError(400, "last message has no content")
	ErrCompletionFailed   = response.NewError(502, "chat completion provider failed")
	ErrHistoryUnavailable = response.NewError(500, "command history unavailable")
)
