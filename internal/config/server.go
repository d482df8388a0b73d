package config

import (
	"context"
	"fmt"
	"os"
	"time"

	chatHandler "HomeyChat/internal/api/chat/handler"
	chatRepository "HomeyChat/internal/api/chat/repository"
	chatService "HomeyChat/internal/api/chat/service"
	"HomeyChat/internal/middleware"
	"HomeyChat/internal/skills"
	"HomeyChat/pkg/homey"
	"HomeyChat/pkg/nlp"
	chatGPT "HomeyChat/pkg/openai"
	redisPkg "HomeyChat/pkg/redis"
	"HomeyChat/pkg/utils"

	"HomeyChat/database/postgres"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	flowCachePath   = "./storage/cache/flows.json"
	deviceCachePath = "./storage/cache/devices.json"
	catalogInterval = 30 * time.Minute
	defaultAppPort  = "3000"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redisPkg.ISessionStore
	homeyClient homey.ItfHomey
	chatGPT     chatGPT.IChatGPT

	catalogCancel context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redisPkg.ISessionStore) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithHomeyClient() ServerOption {
	return func(s *Server) error {
		client, err := homey.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize Homey client: %v", err)
			}
			return fmt.Errorf("failed to create Homey client: %w", err)
		}
		s.homeyClient = client
		return nil
	}
}

func WithChatGPT() ServerOption {
	return func(s *Server) error {
		client, err := chatGPT.NewChatGPT()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create completion provider client: %v", err)
			}
			return fmt.Errorf("failed to create completion provider client: %w", err)
		}
		s.chatGPT = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Chat Domain
	processor := nlp.New()
	flowCatalog := skills.NewFlowCatalog(s.homeyClient, s.log, flowCachePath)
	deviceCatalog := skills.NewDeviceCatalog(s.homeyClient, s.log, deviceCachePath)
	registry := skills.NewRegistry(s.log, skills.DefaultFactory(s.homeyClient, flowCatalog, processor, s.log))

	catalogCtx, cancel := context.WithCancel(context.Background())
	s.catalogCancel = cancel
	flowCatalog.StartRefreshLoop(catalogCtx, catalogInterval)

	chatRepo := chatRepository.New(s.db, s.log)
	chatServices := chatService.New(s.log, registry, deviceCatalog, chatRepo, s.redisServer, s.chatGPT, s.utils, processor)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, chatHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.engine.Use(s.middleware.NewRateLimiter)

	// The completion endpoint lives at /v1/chat/completions so stock
	// OpenAI clients can point their base URL straight at this server.
	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = defaultAppPort
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.catalogCancel != nil {
			s.catalogCancel()
		}
		return err
	}

	return nil
}

func (s *Server) Shutdown() {
	if s.catalogCancel != nil {
		s.catalogCancel()
	}
	if err := s.engine.Shutdown(); err != nil {
		s.log.Errorf("Failed to shut down server: %v", err)
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
