package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/page-delivery-service/internal/events"
	"github.com/spec-kit/page-delivery-service/internal/observability"
	"github.com/spec-kit/page-delivery-service/internal/service"
	"github.com/spec-kit/page-delivery-service/internal/signing"
	apperrors "github.com/spec-kit/page-delivery-service/pkg/util/errorutil"
)

// rejectedMessage is deliberately generic: malformed, forged and expired
// tokens must be indistinguishable to the requesting client.
const rejectedMessage = "link invalid or expired, please request a new one"

// RenderHandler serves rendered pages to holders of a valid delivery token.
type RenderHandler struct {
	verifier   *signing.Verifier
	renders    *service.RenderService
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// NewRenderHandler constructs handler.
func NewRenderHandler(verifier *signing.Verifier, renders *service.RenderService, dispatcher events.Dispatcher, metrics *observability.Metrics) *RenderHandler {
	return &RenderHandler{verifier: verifier, renders: renders, dispatcher: dispatcher, metrics: metrics}
}

// Render handles GET /render/:collectionID/:pageID?token=...
func (h *RenderHandler) Render(c *fiber.Ctx) error {
	collectionID := c.Params("collectionID")
	pageID := c.Params("pageID")

	payload, err := h.verifier.Verify(c.Query("token"))
	if err != nil {
		return h.reject(c, collectionID, pageID, rejectReason(err))
	}

	// The token authorizes exactly one resource; the path must claim the same
	// one.
	if payload.ScopeID != collectionID || payload.ResourceID != pageID {
		return h.reject(c, collectionID, pageID, "resource_mismatch")
	}

	result, err := h.renders.Render(c.Context(), payload)
	if err != nil {
		return err
	}

	h.metrics.RecordRenderServed()
	c.Set(fiber.HeaderContentType, result.ContentType)
	return c.Send(result.Body)
}

func (h *RenderHandler) reject(c *fiber.Ctx, collectionID, pageID, reason string) error {
	h.metrics.RecordRenderRejected(reason)
	if h.dispatcher != nil {
		_ = h.dispatcher.Publish(c.Context(), events.Event{
			ID:           uuid.NewString(),
			Type:         events.EventRenderRejected,
			CollectionID: collectionID,
			PageID:       pageID,
			Timestamp:    time.Now(),
			Payload:      events.RenderRejectedPayload{Reason: reason},
		})
	}
	return apperrors.NewUnauthorized(rejectedMessage)
}

func rejectReason(err error) string {
	switch err {
	case signing.ErrSignatureInvalid:
		return "signature_invalid"
	case signing.ErrExpired:
		return "expired"
	default:
		return "malformed"
	}
}
