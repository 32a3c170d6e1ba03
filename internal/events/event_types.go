package events

import (
	"time"

	"github.com/spec-kit/page-delivery-service/internal/signing"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLinkIssued     EventType = "link_issued"
	EventRenderServed   EventType = "render_served"
	EventRenderRejected EventType = "render_rejected"
)

// Event represents an access event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	CollectionID string      `json:"collection_id"`
	PageID       string      `json:"page_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// LinkIssuedPayload payload.
type LinkIssuedPayload struct {
	AccountID string       `json:"account_id"`
	Tier      signing.Tier `json:"tier"`
}

// RenderServedPayload payload.
type RenderServedPayload struct {
	Tier   signing.Tier `json:"tier"`
	Cached bool         `json:"cached"`
}

// RenderRejectedPayload payload. Reason is the internal rejection subtype;
// it is never exposed to the requesting client.
type RenderRejectedPayload struct {
	Reason string `json:"reason"`
}
