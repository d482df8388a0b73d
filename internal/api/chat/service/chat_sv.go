package chatService

import (
	"context"
	"time"

	"HomeyChat/internal/api/chat"
	"HomeyChat/internal/entity"
	"HomeyChat/internal/skills"
	contextPkg "HomeyChat/pkg/context"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const anonymousUser = "anonymous"

// ProcessChat runs the command path: screen the last message, merge any
// pending clarification, dispatch to the skill registry. Handled=false
// means the caller should relay the conversation to the provider.
func (s *chatService) ProcessChat(ctx context.Context, req chat.ChatCompletionRequest) (*chat.ChatOutcome, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(req.Messages) == 0 {
		return nil, chat.ErrEmptyMessages
	}

	lastMessage := req.Messages[len(req.Messages)-1].Content
	if lastMessage == "" {
		return nil, chat.ErrEmptyUserMessage
	}

	userID := req.UserID
	if userID == "" {
		userID = anonymousUser
	}

	command, resumed := s.resumePending(ctx, userID, lastMessage)

	if !resumed && !s.processor.IsLikelyCommand(command) {
		return &chat.ChatOutcome{Handled: false}, nil
	}

	resp, matched := s.registry.Dispatch(ctx, skills.Request{
		UserID:  userID,
		Command: command,
	})
	if !matched {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"command":    command,
		}).Info("No skill matched, falling back to completion provider")
		return &chat.ChatOutcome{Handled: false}, nil
	}

	if resp.NeedsClarification {
		s.savePending(ctx, userID, resp.PendingCommand)
	} else {
		s.clearPending(ctx, userID)
		s.recordCommand(ctx, userID, command, resp.Skill, resp.Text)
	}

	return &chat.ChatOutcome{Handled: true, Reply: resp.Text, Skill: resp.Skill}, nil
}

// resumePending glues a follow-up answer onto the command that asked
// for it: "dimme kjøkken" followed by "40%" dispatches as
// "dimme kjøkken 40%". A follow-up that a skill claims on its own,
// like a bare flow name picked from a disambiguation question, is
// dispatched as-is. Anything else leaves the pending state untouched.
func (s *chatService) resumePending(ctx context.Context, userID, message string) (string, bool) {
	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Session lookup failed, treating message as new")
		return message, false
	}
	if session == nil || session.PendingCommand == "" {
		return message, false
	}

	_, hasPercent := s.processor.ExtractPercent(message)
	hasRoom := s.processor.ExtractRoom(message) != ""
	if hasPercent || hasRoom {
		return session.PendingCommand + " " + message, true
	}

	// Merging would re-trigger the disambiguation, so a self-contained
	// answer goes through alone.
	if s.registry.MatchesAny(message) {
		return message, true
	}

	return message, false
}

func (s *chatService) savePending(ctx context.Context, userID, pendingCommand string) {
	err := s.sessions.SaveSession(ctx, entity.ChatSession{
		UserID:         userID,
		PendingCommand: pendingCommand,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to save pending clarification")
	}
}

func (s *chatService) clearPending(ctx context.Context, userID string) {
	if err := s.sessions.ClearSession(ctx, userID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to clear session")
	}
}

// recordCommand persists a handled command for the history endpoint.
// Best-effort: a failed insert never breaks the chat turn.
func (s *chatService) recordCommand(ctx context.Context, userID, command, skill, response string) {
	repo, err := s.chatRepo.NewClient(false)
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to open history repository")
		return
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to generate history id")
		return
	}

	record := entity.CommandRecord{
		ID:        id,
		UserID:    userID,
		Command:   command,
		Skill:     skill,
		Response:  response,
		CreatedAt: time.Now(),
	}

	if err := repo.Commands.CreateCommand(ctx, record); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to persist command history")
	}
}

func (s *chatService) CompleteFallback(ctx context.Context, req chat.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	resp, err := s.llm.CreateCompletion(ctx, s.toProviderRequest(req))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Completion provider call failed")
		return openai.ChatCompletionResponse{}, chat.ErrCompletionFailed
	}
	return resp, nil
}

func (s *chatService) StreamFallback(ctx context.Context, req chat.ChatCompletionRequest) (*openai.ChatCompletionStream, error) {
	stream, err := s.llm.CreateCompletionStream(ctx, s.toProviderRequest(req))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Completion provider stream failed")
		return nil, chat.ErrCompletionFailed
	}
	return stream, nil
}

func (s *chatService) toProviderRequest(req chat.ChatCompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if s.systemPrompt != "" && !hasSystemMessage(req.Messages) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: s.systemPrompt,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		User:        req.UserID,
	}
}

func hasSystemMessage(messages []chat.Message) bool {
	for _, m := range messages {
		if m.Role == openai.ChatMessageRoleSystem {
			return true
		}
	}
	return false
}

func (s *chatService) Health(ctx context.Context) chat.HealthResponse {
	loaded := s.registry.Skills()

	names := make([]string, len(loaded))
	for i, skill := range loaded {
		names[i] = skill.Name()
	}

	return chat.HealthResponse{
		Status:             "healthy",
		FunctionsLoaded:    len(loaded),
		AvailableFunctions: names,
	}
}

func (s *chatService) ListFunctions(ctx context.Context) map[string]chat.FunctionInfo {
	functions := make(map[string]chat.FunctionInfo)
	for _, skill := range s.registry.Skills() {
		functions[skill.Name()] = chat.FunctionInfo{Descriptions: skill.Descriptions()}
	}
	return functions
}

func (s *chatService) ReloadFunctions(ctx context.Context) chat.ReloadResponse {
	s.registry.Reload()
	return chat.ReloadResponse{
		Status:          "success",
		FunctionsLoaded: len(s.registry.Skills()),
	}
}

func (s *chatService) DevicesByRoom(ctx context.Context) map[string][]entity.Device {
	return s.deviceCatalog.ByRoom(ctx)
}

func (s *chatService) GetHistory(ctx context.Context, userID string, limit, offset int) (*chat.HistoryResponse, error) {
	if userID == "" {
		userID = anonymousUser
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	repo, err := s.chatRepo.NewClient(false)
	if err != nil {
		return nil, chat.ErrHistoryUnavailable
	}

	records, total, err := repo.Commands.GetCommandsByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, chat.ErrHistoryUnavailable
	}

	return &chat.HistoryResponse{Commands: records, Total: total}, nil
}
