package homey_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"HomeyChat/pkg/homey"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]interface{}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (homey.ItfHomey, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("HOMEY_API_URL", server.URL)
	t.Setenv("HOMEY_API_TOKEN", "test-token")

	client, err := homey.New(logrus.New())
	require.NoError(t, err)
	return client, server
}

func TestNewRequiresConfiguration(t *testing.T) {
	t.Setenv("HOMEY_API_URL", "")
	t.Setenv("HOMEY_API_TOKEN", "")

	_, err := homey.New(logrus.New())
	assert.Error(t, err)

	t.Setenv("HOMEY_API_URL", "http://localhost:9999")
	_, err = homey.New(logrus.New())
	assert.Error(t, err)
}

func TestSetOnOff(t *testing.T) {
	var got recordedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got.body)
		w.WriteHeader(http.StatusOK)
	})

	err := client.SetOnOff(context.Background(), "device-1", true)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/devices/device-1/capability/onoff", got.path)
	assert.Equal(t, "Bearer test-token", got.auth)
	assert.Equal(t, true, got.body["value"])
}

func TestSetDimClampsValue(t *testing.T) {
	var values []float64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]float64
		json.NewDecoder(r.Body).Decode(&body)
		values = append(values, body["value"])
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.SetDim(context.Background(), "device-1", 0.4))
	require.NoError(t, client.SetDim(context.Background(), "device-1", 1.7))
	require.NoError(t, client.SetDim(context.Background(), "device-1", -0.2))

	require.Len(t, values, 3)
	assert.InDelta(t, 0.4, values[0], 0.001)
	assert.Equal(t, 1.0, values[1])
	assert.Equal(t, 0.0, values[2])
}

func TestListFlows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manager/flow/flow", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "flow-1", "name": "Kveldsrutine"},
			{"id": "flow-2", "name": "Morgenrutine"},
		})
	})

	flows, err := client.ListFlows(context.Background())
	require.NoError(t, err)

	require.Len(t, flows, 2)
	assert.Equal(t, "flow-1", flows[0].ID)
	assert.Equal(t, "Kveldsrutine", flows[0].Name)
}

func TestTriggerFlow(t *testing.T) {
	var got recordedRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.TriggerFlow(context.Background(), "flow-1"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/manager/flow/flow/flow-1/trigger", got.path)
}

func TestErrorStatusSurfacesAsError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.Error(t, client.SetOnOff(context.Background(), "device-1", true))
	assert.Error(t, client.TriggerFlow(context.Background(), "flow-1"))

	_, err := client.ListFlows(context.Background())
	assert.Error(t, err)

	_, err = client.ListDevices(context.Background())
	assert.Error(t, err)
}
