package homey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"HomeyChat/internal/entity"

	"github.com/sirupsen/logrus"
)

// ItfHomey is the narrow surface of the Homey cloud API this backend
// needs: two capability writes, the flow list/trigger pair, and the
// device inventory.
type ItfHomey interface {
	SetOnOff(ctx context.Context, deviceID string, on bool) error
	SetDim(ctx context.Context, deviceID string, value float64) error
	ListFlows(ctx context.Context) ([]entity.Flow, error)
	TriggerFlow(ctx context.Context, flowID string) error
	ListDevices(ctx context.Context) ([]entity.Device, error)
}

type homeyClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

// New builds the hub client from HOMEY_API_URL and HOMEY_API_TOKEN.
// A missing token is a configuration error; nothing downstream works
// without it.
func New(log *logrus.Logger) (ItfHomey, error) {
	baseURL := os.Getenv("HOMEY_API_URL")
	token := os.Getenv("HOMEY_API_TOKEN")

	if baseURL == "" {
		return nil, fmt.Errorf("HOMEY_API_URL is not set")
	}
	if token == "" {
		return nil, fmt.Errorf("HOMEY_API_TOKEN is not set")
	}

	return &homeyClient{
		baseURL: baseURL,
		token:   token,
		// The hub API carries no SLA; 10s keeps a wedged hub from
		// stalling a chat turn forever.
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}, nil
}

func (h *homeyClient) SetOnOff(ctx context.Context, deviceID string, on bool) error {
	url := fmt.Sprintf("%s/devices/%s/capability/onoff", h.baseURL, deviceID)
	return h.putCapability(ctx, url, on)
}

func (h *homeyClient) SetDim(ctx context.Context, deviceID string, value float64) error {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	url := fmt.Sprintf("%s/devices/%s/capability/dim", h.baseURL, deviceID)
	return h.putCapability(ctx, url, value)
}

func (h *homeyClient) putCapability(ctx context.Context, url string, value interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"value": value})
	if err != nil {
		return fmt.Errorf("failed to encode capability value: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build capability request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("capability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("capability request returned status %d", resp.StatusCode)
	}

	return nil
}

func (h *homeyClient) ListFlows(ctx context.Context) ([]entity.Flow, error) {
	url := fmt.Sprintf("%s/manager/flow/flow", h.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flow list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flow list returned status %d", resp.StatusCode)
	}

	var flows []entity.Flow
	if err := json.NewDecoder(resp.Body).Decode(&flows); err != nil {
		return nil, fmt.Errorf("failed to decode flow list: %w", err)
	}

	return flows, nil
}

func (h *homeyClient) TriggerFlow(ctx context.Context, flowID string) error {
	url := fmt.Sprintf("%s/manager/flow/flow/%s/trigger", h.baseURL, flowID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build flow trigger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("flow trigger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("flow trigger returned status %d", resp.StatusCode)
	}

	return nil
}

func (h *homeyClient) ListDevices(ctx context.Context) ([]entity.Device, error) {
	url := fmt.Sprintf("%s/manager/devices/device", h.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build device list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device list returned status %d", resp.StatusCode)
	}

	var devices []entity.Device
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("failed to decode device list: %w", err)
	}

	return devices, nil
}
