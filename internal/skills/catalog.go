package skills

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"HomeyChat/internal/entity"
	"HomeyChat/pkg/homey"
	"HomeyChat/pkg/log"

	"github.com/sirupsen/logrus"
)

const catalogMaxAge = time.Hour

// FlowCatalog is the in-memory flow list, refreshed from the hub and
// persisted to a local cache file so listing and matching still work
// when the hub is unreachable at startup. Refreshes replace the whole
// snapshot via atomic pointer swap; readers never see a partial update.
type FlowCatalog struct {
	hub       homey.ItfHomey
	logger    *logrus.Logger
	cachePath string
	current   atomic.Pointer[entity.FlowCatalog]
	refreshMu sync.Mutex
}

func NewFlowCatalog(hub homey.ItfHomey, logger *logrus.Logger, cachePath string) *FlowCatalog {
	c := &FlowCatalog{
		hub:       hub,
		logger:    logger,
		cachePath: cachePath,
	}
	c.loadCache()
	return c
}

// Flows returns the current snapshot, refreshing lazily when the
// catalog is empty or older than an hour. A failed refresh keeps the
// stale snapshot; stale beats empty.
func (c *FlowCatalog) Flows(ctx context.Context) []entity.Flow {
	snapshot := c.current.Load()
	if snapshot.IsStale(catalogMaxAge) {
		if err := c.Refresh(ctx); err != nil {
			log.WithRequestID(ctx).WithField("error", err.Error()).
				Warn("Flow refresh failed, keeping cached catalog")
		}
		snapshot = c.current.Load()
	}

	if snapshot == nil {
		return nil
	}
	return snapshot.Flows
}

// Refresh fetches the full flow list, swaps the snapshot and persists
// it to the cache file. On failure the in-memory catalog is untouched.
func (c *FlowCatalog) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	flows, err := c.hub.ListFlows(ctx)
	if err != nil {
		return err
	}

	snapshot := &entity.FlowCatalog{
		Flows:     flows,
		FetchedAt: time.Now(),
	}
	c.current.Store(snapshot)
	c.persistCache(snapshot)

	c.logger.WithField("flows", len(flows)).Info("Flow catalog refreshed")
	return nil
}

// StartRefreshLoop refreshes the catalog on a fixed interval until the
// context is cancelled.
func (c *FlowCatalog) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					c.logger.WithField("error", err.Error()).
						Warn("Periodic flow refresh failed")
				}
			}
		}
	}()
}

func (c *FlowCatalog) loadCache() {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return
	}

	var snapshot entity.FlowCatalog
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.WithField("error", err.Error()).Warn("Ignoring corrupt flow cache file")
		return
	}

	c.current.Store(&snapshot)
	c.logger.WithField("flows", len(snapshot.Flows)).Info("Flow catalog loaded from cache")
}

func (c *FlowCatalog) persistCache(snapshot *entity.FlowCatalog) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		c.logger.WithField("error", err.Error()).Warn("Failed to encode flow cache")
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err != nil {
		c.logger.WithField("error", err.Error()).Warn("Failed to create cache directory")
		return
	}
	if err := os.WriteFile(c.cachePath, data, 0o644); err != nil {
		c.logger.WithField("error", err.Error()).Warn("Failed to write flow cache")
	}
}
