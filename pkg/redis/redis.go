package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"HomeyChat/internal/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ISessionStore keeps per-user conversation state between chat turns,
// such as a dim command still waiting for its percentage. A missing
// session is returned as (nil, nil), not an error.
type ISessionStore interface {
	GetSession(ctx context.Context, userID string) (*entity.ChatSession, error)
	SaveSession(ctx context.Context, session entity.ChatSession) error
	ClearSession(ctx context.Context, userID string) error
}

const sessionTTL = 5 * time.Minute

type sessionStore struct {
	client *redis.Client
}

func New() ISessionStore {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &sessionStore{client: client}
}

func sessionKey(userID string) string {
	return "chat:session:" + userID
}

func (s *sessionStore) GetSession(ctx context.Context, userID string) (*entity.ChatSession, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read session for %s: %w", userID, err)
	}

	var session entity.ChatSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session for %s: %w", userID, err)
	}

	return &session, nil
}

func (s *sessionStore) SaveSession(ctx context.Context, session entity.ChatSession) error {
	session.UpdatedAt = time.Now()

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session for %s: %w", session.UserID, err)
	}

	if err := s.client.Set(ctx, sessionKey(session.UserID), payload, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session for %s: %w", session.UserID, err)
	}

	return nil
}

func (s *sessionStore) ClearSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session for %s: %w", userID, err)
	}
	return nil
}
