package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/page-delivery-service/internal/events"
)

// AuditService writes structured audit lines for access events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLinkIssued, a.handleLinkIssued)
	a.dispatcher.Subscribe(events.EventRenderServed, a.handleRenderServed)
	a.dispatcher.Subscribe(events.EventRenderRejected, a.handleRenderRejected)
}

func (a *AuditService) handleLinkIssued(_ context.Context, event events.Event) error {
	a.logger.Info("LinkIssued",
		zap.String("collection_id", event.CollectionID),
		zap.String("page_id", event.PageID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRenderServed(_ context.Context, event events.Event) error {
	a.logger.Info("RenderServed",
		zap.String("collection_id", event.CollectionID),
		zap.String("page_id", event.PageID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRenderRejected(_ context.Context, event events.Event) error {
	a.logger.Info("RenderRejected",
		zap.String("collection_id", event.CollectionID),
		zap.String("page_id", event.PageID),
		zap.Any("payload", event.Payload))
	return nil
}
