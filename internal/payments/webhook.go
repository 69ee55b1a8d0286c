package payments

import (
	"encoding/json"
	"fmt"
)

// WebhookEvent is a parsed gateway webhook notification. ResourceID is the
// identifier of the resource the event refers to; for link events it is the
// payment link id stored on the appointment.
type WebhookEvent struct {
	Type       string
	ResourceID string
}

type webhookPayload struct {
	Data struct {
		Attributes struct {
			Type string `json:"type"`
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

// ParseEvent decodes a raw webhook body into a WebhookEvent. The gateway
// delivers the payload as an opaque body that must be parsed manually;
// authentication happens out of band.
func ParseEvent(raw []byte) (*WebhookEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if payload.Data.Attributes.Type == "" {
		return nil, fmt.Errorf("webhook payload has no event type")
	}
	return &WebhookEvent{
		Type:       payload.Data.Attributes.Type,
		ResourceID: payload.Data.Attributes.Data.ID,
	}, nil
}
