package chatHandler

import (
	chatService "HomeyChat/internal/api/chat/service"
	"HomeyChat/internal/middleware"
	"HomeyChat/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
	utilsInstance utils.IUtils,
) *ChatHandler {
	return &ChatHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		chatService: cs,
		utils:       utilsInstance,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	v1 := srv.Group("/v1")
	v1.Post("/chat/completions", h.CreateChatCompletion)

	// Operational endpoints
	srv.Get("/health", h.Health)
	srv.Get("/functions", h.ListFunctions)
	srv.Post("/functions/reload", h.ReloadFunctions)
	srv.Get("/devices", h.ListDevices)
	srv.Get("/history", h.GetHistory)
}
