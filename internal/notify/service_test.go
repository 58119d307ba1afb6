package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T, cfg Config, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewService(cfg)
	s.endpoint = srv.URL
	return s
}

func TestSendAlerts(t *testing.T) {
	var got map[string]any
	s := testService(t, Config{ServerKey: "key", DeviceTokens: []string{"tok-1"}},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "key=key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		})

	sent := s.SendAlerts(context.Background(), []string{"売上低下"}, "経営アラート", map[string]string{"k": "v"}, nil)
	assert.True(t, sent)
	assert.Equal(t, "tok-1", got["to"])
	notification := got["notification"].(map[string]any)
	assert.Equal(t, "経営アラート", notification["title"])
	assert.Equal(t, "売上低下", notification["body"])
}

func TestSendAlertsSuppressesIdenticalPayload(t *testing.T) {
	calls := 0
	s := testService(t, Config{ServerKey: "key", DeviceTokens: []string{"tok-1"}},
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusOK)
		})

	alerts := []string{"粗利率低下"}
	assert.True(t, s.SendAlerts(context.Background(), alerts, "t", nil, nil))
	assert.False(t, s.SendAlerts(context.Background(), alerts, "t", nil, nil))
	assert.Equal(t, 1, calls)

	// A different payload goes out again.
	assert.True(t, s.SendAlerts(context.Background(), []string{"解約率上昇"}, "t", nil, nil))
	assert.Equal(t, 2, calls)
}

func TestSendAlertsEmpty(t *testing.T) {
	s := NewService(Config{ServerKey: "key", DeviceTokens: []string{"tok"}})
	assert.False(t, s.SendAlerts(context.Background(), nil, "t", nil, nil))
}

func TestSendAlertsUnconfigured(t *testing.T) {
	s := NewService(Config{})
	assert.False(t, s.SendAlerts(context.Background(), []string{"a"}, "t", nil, nil))

	s = NewService(Config{ServerKey: "key"}) // no tokens, no topic
	assert.False(t, s.SendAlerts(context.Background(), []string{"a"}, "t", nil, nil))
}

func TestSendAlertsTransportFailure(t *testing.T) {
	s := testService(t, Config{ServerKey: "key", DeviceTokens: []string{"tok"}},
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
	assert.False(t, s.SendAlerts(context.Background(), []string{"a"}, "t", nil, nil))

	// The failed payload was not recorded, so a retry still sends.
	s.endpoint = testService(t, Config{ServerKey: "key", DeviceTokens: []string{"tok"}},
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }).endpoint
	assert.True(t, s.SendAlerts(context.Background(), []string{"a"}, "t", nil, nil))
}

func TestBuildPayloadVariants(t *testing.T) {
	s := NewService(Config{Topic: "keiei", DryRun: true, ServerKey: "key"})
	payload := s.buildPayload([]string{"a"}, "t", nil, nil)
	assert.Equal(t, "/topics/keiei", payload["to"])
	assert.Equal(t, true, payload["dry_run"])

	multi := s.buildPayload([]string{"a"}, "t", nil, []string{"t1", "t2"})
	assert.Equal(t, []string{"t1", "t2"}, multi["registration_ids"])
	_, hasTo := multi["to"]
	assert.False(t, hasTo)
}

func TestPayloadDigestStable(t *testing.T) {
	a := payloadDigest([]string{"x"}, "t", map[string]string{"k": "v"}, []string{"tok"})
	b := payloadDigest([]string{"x"}, "t", map[string]string{"k": "v"}, []string{"tok"})
	c := payloadDigest([]string{"y"}, "t", map[string]string{"k": "v"}, []string{"tok"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
