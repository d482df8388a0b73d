package chatService

import (
	"context"
	"os"
	"strings"

	"HomeyChat/internal/api/chat"
	chatRepository "HomeyChat/internal/api/chat/repository"
	"HomeyChat/internal/entity"
	"HomeyChat/internal/skills"
	chatGPT "HomeyChat/pkg/openai"
	redisPkg "HomeyChat/pkg/redis"
	"HomeyChat/pkg/utils"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type IChatService interface {
	ProcessChat(ctx context.Context, req chat.ChatCompletionRequest) (*chat.ChatOutcome, error)
	CompleteFallback(ctx context.Context, req chat.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	StreamFallback(ctx context.Context, req chat.ChatCompletionRequest) (*openai.ChatCompletionStream, error)

	Health(ctx context.Context) chat.HealthResponse
	ListFunctions(ctx context.Context) map[string]chat.FunctionInfo
	ReloadFunctions(ctx context.Context) chat.ReloadResponse

	DevicesByRoom(ctx context.Context) map[string][]entity.Device
	GetHistory(ctx context.Context, userID string, limit, offset int) (*chat.HistoryResponse, error)
}

type chatService struct {
	log           *logrus.Logger
	registry      *skills.Registry
	deviceCatalog *skills.DeviceCatalog
	chatRepo      chatRepository.Repository
	sessions      redisPkg.ISessionStore
	llm           chatGPT.IChatGPT
	utils         utils.IUtils
	processor     processorScreen
	systemPrompt  string
}

// processorScreen is the slice of the command processor the service
// needs: the cheap pre-filter and the follow-up detector inputs.
type processorScreen interface {
	IsLikelyCommand(text string) bool
	ExtractPercent(text string) (int, bool)
	ExtractRoom(text string) string
}

func New(
	log *logrus.Logger,
	registry *skills.Registry,
	deviceCatalog *skills.DeviceCatalog,
	chatRepo chatRepository.Repository,
	sessions redisPkg.ISessionStore,
	llm chatGPT.IChatGPT,
	utilsInstance utils.IUtils,
	processor processorScreen,
) IChatService {
	return &chatService{
		log:           log,
		registry:      registry,
		deviceCatalog: deviceCatalog,
		chatRepo:      chatRepo,
		sessions:      sessions,
		llm:           llm,
		utils:         utilsInstance,
		processor:     processor,
		systemPrompt:  loadSystemPrompt(log),
	}
}

const defaultSystemPromptPath = "./SYSTEM_PROMPT.md"

// loadSystemPrompt reads the assistant persona that gets prepended to
// provider calls. A missing file just means no persona is injected.
func loadSystemPrompt(log *logrus.Logger) string {
	path := os.Getenv("SYSTEM_PROMPT_PATH")
	if path == "" {
		path = defaultSystemPromptPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithField("path", path).Debug("No system prompt file loaded")
		return ""
	}
	return strings.TrimSpace(string(data))
}
