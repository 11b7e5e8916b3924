package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onlyvolunteer/backend/models"
)

const alertsFetchLimit = 20

// AlertSource provides stored alerts.
type AlertSource interface {
	RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error)
}

// AlertsOutput is the alerts tool result
type AlertsOutput struct {
	ActiveAlerts []models.Alert `json:"activeAlerts"`
	Summary      AlertsSummary  `json:"summary"`
}

// AlertsSummary summarizes the active alert count
type AlertsSummary struct {
	TotalActive int `json:"totalActive"`
}

// AlertsTool fetches active (non-expired) alerts
type AlertsTool struct {
	store AlertSource
}

// NewAlertsTool creates a new alerts tool
func NewAlertsTool(store AlertSource) *AlertsTool {
	return &AlertsTool{store: store}
}

func (t *AlertsTool) Name() string {
	return NameAlerts
}

func (t *AlertsTool) Description() string {
	return `Fetch active emergency and community alerts: floods, SOS, weather warnings, and local advisories. Expired alerts are excluded.`
}

func (t *AlertsTool) InputSchema() map[string]interface{} {
	return userIDSchema(nil)
}

func (t *AlertsTool) Run(ctx context.Context, _ *Request) (interface{}, error) {
	alerts, err := t.store.RecentAlerts(ctx, alertsFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}

	now := time.Now()
	active := make([]models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if !alert.ExpiresAt.IsZero() && alert.ExpiresAt.Before(now) {
			continue
		}
		if alert.Type == "" {
			alert.Type = "general"
		}
		active = append(active, alert)
	}

	return &AlertsOutput{
		ActiveAlerts: active,
		Summary:      AlertsSummary{TotalActive: len(active)},
	}, nil
}

func (t *AlertsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return executeRaw(ctx, t, input)
}
