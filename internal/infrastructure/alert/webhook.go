// Package alert delivers defect notifications to an external webhook.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/craftstock/backend/internal/application/build"
	"github.com/craftstock/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// WebhookNotifier implements build.DefectAlertService by POSTing the alert as
// JSON to a configured webhook. Delivery happens after the build has
// committed, so failures are reported to the caller for logging only.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a notifier from the alert configuration
func NewWebhookNotifier(cfg *config.AlertConfig, logger *zap.Logger) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("defect-alert"),
	}
}

// NotifyDefects posts the alert payload to the webhook
func (n *WebhookNotifier) NotifyDefects(ctx context.Context, alert build.DefectAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal defect alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build defect alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver defect alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("defect alert webhook returned status %d", resp.StatusCode)
	}

	n.logger.Info("defect alert delivered",
		zap.String("entry_id", alert.EntryID.String()),
		zap.Int("defect_count", alert.DefectCount),
	)
	return nil
}

// NoOpNotifier discards alerts. Used when alerting is disabled in config.
type NoOpNotifier struct{}

// NotifyDefects does nothing
func (NoOpNotifier) NotifyDefects(context.Context, build.DefectAlert) error {
	return nil
}

// FromConfig returns the webhook notifier when alerting is enabled, otherwise
// the no-op notifier.
func FromConfig(cfg *config.AlertConfig, logger *zap.Logger) build.DefectAlertService {
	if cfg == nil || !cfg.Enabled {
		return NoOpNotifier{}
	}
	return NewWebhookNotifier(cfg, logger)
}

// Ensure both notifiers implement the port
var (
	_ build.DefectAlertService = (*WebhookNotifier)(nil)
	_ build.DefectAlertService = NoOpNotifier{}
)
