package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/page-delivery-service/internal/domain"
	"github.com/spec-kit/page-delivery-service/internal/events"
	"github.com/spec-kit/page-delivery-service/internal/persistence"
	"github.com/spec-kit/page-delivery-service/internal/repository"
	"github.com/spec-kit/page-delivery-service/internal/signing"
	apperrors "github.com/spec-kit/page-delivery-service/pkg/util/errorutil"
)

const renderContentType = "text/html; charset=utf-8"

// RenderService produces page documents at the tier a verified token grants.
type RenderService struct {
	pages      repository.PageRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRenderService builds the service.
func NewRenderService(pages repository.PageRepository, cache *persistence.Redis, dispatcher events.Dispatcher, logger *zap.Logger) *RenderService {
	return &RenderService{pages: pages, cache: cache, dispatcher: dispatcher, logger: logger}
}

// Render returns the page document for an already-verified token payload.
// Output is cached for the token expiry window, keyed by scope, page and tier.
func (s *RenderService) Render(ctx context.Context, payload *signing.Payload) (*domain.RenderResult, error) {
	if cached, err := s.cache.GetRender(ctx, payload.ScopeID, payload.ResourceID, string(payload.Tier)); err == nil {
		s.publishServed(ctx, payload, true)
		return &domain.RenderResult{ContentType: renderContentType, Body: cached, Cached: true}, nil
	}

	page, err := s.pages.GetByID(ctx, payload.ScopeID, payload.ResourceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("page", map[string]any{"page_id": payload.ResourceID})
		}
		return nil, apperrors.MapError(err)
	}

	body := renderDocument(page, payload.Tier)
	if err := s.cache.SetRender(ctx, payload.ScopeID, payload.ResourceID, string(payload.Tier), body, signing.ExpiryWindow); err != nil {
		s.logger.Warn("render cache write failed", zap.Error(err))
	}

	s.publishServed(ctx, payload, false)
	return &domain.RenderResult{ContentType: renderContentType, Body: body}, nil
}

func (s *RenderService) publishServed(ctx context.Context, payload *signing.Payload, cached bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         events.EventRenderServed,
		CollectionID: payload.ScopeID,
		PageID:       payload.ResourceID,
		Timestamp:    time.Now(),
		Payload:      events.RenderServedPayload{Tier: payload.Tier, Cached: cached},
	})
}

// renderDocument assembles the page HTML. The standard tier serves the
// preview asset with a watermark; pro serves the full asset without one.
func renderDocument(page *domain.Page, tier signing.Tier) []byte {
	assetKey := page.AssetKey
	watermark := `<div class="watermark">preview</div>`
	if tier == signing.TierPro {
		watermark = ""
	} else if assetKey != "" {
		assetKey += ".preview"
	}

	assetTag := ""
	if assetKey != "" {
		assetTag = fmt.Sprintf(`<img src="/assets/%s" alt=%q>`, html.EscapeString(assetKey), page.Title)
	}

	return []byte(fmt.Sprintf(
		`<!DOCTYPE html><html><head><title>%s</title></head><body class="tier-%s">%s<article>%s</article>%s</body></html>`,
		html.EscapeString(page.Title),
		tier,
		watermark,
		page.Markup,
		assetTag,
	))
}
