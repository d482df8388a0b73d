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

// DeviceCatalog mirrors FlowCatalog for the hub's device inventory,
// grouped by room for the discovery endpoint.
type DeviceCatalog struct {
	hub       homey.ItfHomey
	logger    *logrus.Logger
	cachePath string
	current   atomic.Pointer[entity.DeviceCatalog]
	refreshMu sync.Mutex
}

func NewDeviceCatalog(hub homey.ItfHomey, logger *logrus.Logger, cachePath string) *DeviceCatalog {
	c := &DeviceCatalog{
		hub:       hub,
		logger:    logger,
		cachePath: cachePath,
	}
	c.loadCache()
	return c
}

func (c *DeviceCatalog) ByRoom(ctx context.Context) map[string][]entity.Device {
	snapshot := c.current.Load()
	if snapshot.IsStale(catalogMaxAge) {
		if err := c.Refresh(ctx); err != nil {
			log.WithRequestID(ctx).WithField("error", err.Error()).
				Warn("Device refresh failed, keeping cached inventory")
		}
		snapshot = c.current.Load()
	}

	if snapshot == nil {
		return nil
	}
	return snapshot.ByRoom
}

func (c *DeviceCatalog) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	devices, err := c.hub.ListDevices(ctx)
	if err != nil {
		return err
	}

	byRoom := make(map[string][]entity.Device)
	for _, device := range devices {
		room := device.Zone.Name
		if room == "" {
			room = "unknown"
		}
		byRoom[room] = append(byRoom[room], device)
	}

	snapshot := &entity.DeviceCatalog{
		ByRoom:    byRoom,
		FetchedAt: time.Now(),
	}
	c.current.Store(snapshot)
	c.persistCache(snapshot)

	c.logger.WithField("devices", len(devices)).Info("Device inventory refreshed")
	return nil
}

func (c *DeviceCatalog) loadCache() {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return
	}

	var snapshot entity.DeviceCatalog
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.WithField("error", err.Error()).Warn("Ignoring corrupt device cache file")
		return
	}

	c.current.Store(&snapshot)
}

func (c *DeviceCatalog) persistCache(snapshot *entity.DeviceCatalog) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		c.logger.WithField("error", err.Error()).Warn("Failed to encode device cache")
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err != nil {
		c.logger.WithField("error", err.Error()).Warn("Failed to create cache directory")
		return
	}
	if err := os.WriteFile(c.cachePath, data, 0o644); err != nil {
		c.logger.WithField("error", err.Error()).Warn("Failed to write device cache")
	}
}
