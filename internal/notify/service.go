// Package notify dispatches alert sets as push notifications. It is a
// transport collaborator: the pipeline hands it alert strings, it
// decides whether and how to send. Byte-identical repeated alert sets
// are suppressed, so a dashboard recomputing the same alerts on every
// refresh does not spam devices.
package notify

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const fcmEndpoint = "https://fcm.googleapis.com/fcm/send"

// Config holds push-dispatch settings.
type Config struct {
	ServerKey    string
	DeviceTokens []string
	Topic        string
	DryRun       bool
}

// Service sends alert notifications via Firebase Cloud Messaging.
// It remembers the digest of the last payload it sent and treats an
// identical follow-up as a no-op.
type Service struct {
	cfg      Config
	client   *http.Client
	endpoint string

	lastDigest string
}

// NewService creates a Service with the given settings.
func NewService(cfg Config) *Service {
	return &Service{
		cfg:      cfg,
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: fcmEndpoint,
	}
}

// Configured reports whether the service has enough settings to send.
func (s *Service) Configured() bool {
	return s.cfg.ServerKey != "" && (len(s.cfg.DeviceTokens) > 0 || s.cfg.Topic != "")
}

// SendAlerts delivers the alert set as one notification. Returns true
// only when a send actually happened: empty alerts, missing
// configuration, a repeated identical payload, and transport failures
// all return false (failures are logged, never raised to the caller).
func (s *Service) SendAlerts(ctx context.Context, alerts []string, title string, data map[string]string, tokens []string) bool {
	if len(alerts) == 0 {
		return false
	}
	if !s.Configured() {
		zap.L().Debug("notify: not configured, skipping push")
		return false
	}

	if len(tokens) == 0 {
		tokens = s.cfg.DeviceTokens
	}

	digest := payloadDigest(alerts, title, data, tokens)
	if digest == s.lastDigest {
		zap.L().Debug("notify: identical payload, suppressing duplicate send")
		return false
	}

	payload := s.buildPayload(alerts, title, data, tokens)
	if err := s.post(ctx, payload); err != nil {
		zap.L().Error("notify: push delivery failed", zap.Error(err))
		return false
	}

	s.lastDigest = digest
	zap.L().Info("notify: alerts sent", zap.Int("alerts", len(alerts)))
	return true
}

// buildPayload assembles the FCM legacy HTTP message.
func (s *Service) buildPayload(alerts []string, title string, data map[string]string, tokens []string) map[string]any {
	payload := map[string]any{
		"notification": map[string]string{
			"title": title,
			"body":  strings.Join(alerts, "\n"),
		},
	}
	if len(data) > 0 {
		payload["data"] = data
	}
	switch {
	case len(tokens) == 1:
		payload["to"] = tokens[0]
	case len(tokens) > 1:
		payload["registration_ids"] = tokens
	case s.cfg.Topic != "":
		payload["to"] = "/topics/" + s.cfg.Topic
	}
	if s.cfg.DryRun {
		payload["dry_run"] = true
	}
	return payload
}

func (s *Service) post(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "notify: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "notify: create request")
	}
	req.Header.Set("Authorization", "key="+s.cfg.ServerKey)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "notify: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("notify: push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// payloadDigest computes the content hash under which duplicate sends
// are suppressed. JSON with sorted keys keeps the encoding canonical.
func payloadDigest(alerts []string, title string, data map[string]string, tokens []string) string {
	canonical, _ := json.Marshal(struct {
		Alerts []string          `json:"alerts"`
		Title  string            `json:"title"`
		Data   map[string]string `json:"data"`
		Tokens []string          `json:"tokens"`
	}{alerts, title, data, tokens})
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
