package chatHandler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"HomeyChat/internal/api/chat"
	contextPkg "HomeyChat/pkg/context"
	"HomeyChat/pkg/handlerUtil"
	"HomeyChat/pkg/log"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/net/context"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CreateChatCompletion is the OpenAI-compatible entrypoint. The last
// user message is screened first: commands go to the skill registry and
// come back wrapped as a completion object, everything else is relayed
// to the completion provider. Both paths support SSE when stream=true.
func (h *ChatHandler) CreateChatCompletion(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat completion request")

	var req chat.ChatCompletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("invalid request body"), ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if req.Stream {
		return h.streamCompletion(ctx, requestID, req)
	}

	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	outcome, err := h.chatService.ProcessChat(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_chat")
	}

	if outcome.Handled {
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.skillCompletion(req.Model, outcome))
	}

	response, err := h.chatService.CompleteFallback(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "complete_fallback")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

// streamCompletion answers over SSE. The body writer runs after this
// handler returns, so the service calls use the request-scoped context
// without the 30s deadline and the provider stream is closed inside the
// writer.
func (h *ChatHandler) streamCompletion(ctx *fiber.Ctx, requestID string, req chat.ChatCompletionRequest) error {
	errHandler := handlerUtil.New(h.log)
	c := contextPkg.FromFiberCtx(ctx)

	outcome, err := h.chatService.ProcessChat(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_chat")
	}

	if outcome.Handled {
		h.writeSSEHeaders(ctx)
		chunk := h.skillChunk(req.Model, outcome)
		ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			writeSSE(w, chunk)
			writeDone(w)
		})
		return nil
	}

	stream, err := h.chatService.StreamFallback(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "stream_fallback")
	}

	h.writeSSEHeaders(ctx)
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer stream.Close()

		for {
			response, recvErr := stream.Recv()
			if errors.Is(recvErr, io.EOF) {
				writeDone(w)
				return
			}
			if recvErr != nil {
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"error":      recvErr.Error(),
				}).Error("Completion stream interrupted")
				writeDone(w)
				return
			}

			writeSSE(w, response)
		}
	})
	return nil
}

func (h *ChatHandler) writeSSEHeaders(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
}

func writeSSE(w *bufio.Writer, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.Flush()
}

func writeDone(w *bufio.Writer) {
	fmt.Fprint(w, "data: [DONE]\n\n")
	w.Flush()
}

// skillCompletion wraps a skill reply as a full completion object so
// callers cannot tell a local answer from a provider answer.
func (h *ChatHandler) skillCompletion(model string, outcome *chat.ChatOutcome) chat.Completion {
	return chat.Completion{
		ID:      h.completionID(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chat.CompletionChoice{
			{
				Index: 0,
				Message: chat.CompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: outcome.Reply,
				},
				FinishReason: "stop",
			},
		},
	}
}

func (h *ChatHandler) skillChunk(model string, outcome *chat.ChatOutcome) chat.CompletionChunk {
	finish := "stop"
	return chat.CompletionChunk{
		ID:      h.completionID(),
		Object:  "chat.completion.chunk",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chat.ChunkChoice{
			{
				Index: 0,
				Delta: chat.ChunkDelta{
					Role:    openai.ChatMessageRoleAssistant,
					Content: outcome.Reply,
				},
				FinishReason: &finish,
			},
		},
	}
}

func (h *ChatHandler) completionID() string {
	id, err := h.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return fmt.Sprintf("chatcmpl-%d", time.Now().UnixNano())
	}
	return "chatcmpl-" + id
}
