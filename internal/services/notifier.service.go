package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bolavila/config"
	. "bolavila/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Notifier announces newly created missions to whoever delivers the
// actual notifications. Delivery is fire-and-forget: failures are logged
// and never reach the reconciler.
type Notifier interface {
	InspectionCreated(kind InspectionKind, inspectionID, key, unitNumber string)
}

type webhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	log        logger.Logger
}

func NewNotifier(config config.Config) Notifier {
	return &webhookNotifier{
		webhookURL: config.NotifyWebhookURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		log: logger.New("notifier"),
	}
}

func (n *webhookNotifier) InspectionCreated(
	kind InspectionKind,
	inspectionID, key, unitNumber string,
) {
	log := n.log.Function("InspectionCreated")

	if n.webhookURL == "" {
		log.Debug("no webhook configured, skipping notification",
			"kind", kind, "inspectionID", inspectionID)
		return
	}

	payload, err := json.Marshal(map[string]string{
		"event":        "inspection_created",
		"kind":         string(kind),
		"inspectionId": inspectionID,
		"key":          key,
		"unitNumber":   unitNumber,
	})
	if err != nil {
		log.Warn("failed to marshal notification payload", "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
		if err != nil {
			log.Warn("failed to create notification request", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			log.Warn("notification delivery failed",
				"inspectionID", inspectionID, "error", err)
			return
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				log.Warn("Failed to close response body", "error", closeErr)
			}
		}()

		if resp.StatusCode >= 300 {
			log.Warn("notification endpoint rejected event",
				"inspectionID", inspectionID, "statusCode", resp.StatusCode)
		}
	}()
}
