package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/page-delivery-service/internal/domain"
	"github.com/spec-kit/page-delivery-service/internal/events"
	"github.com/spec-kit/page-delivery-service/internal/observability"
	"github.com/spec-kit/page-delivery-service/internal/repository"
	"github.com/spec-kit/page-delivery-service/internal/signing"
	apperrors "github.com/spec-kit/page-delivery-service/pkg/util/errorutil"
)

// LinkGrant is the result of a successful link request.
type LinkGrant struct {
	URL       string
	Tier      signing.Tier
	ExpiresIn time.Duration
}

// LinkService validates ownership and produces signed delivery URLs.
type LinkService struct {
	collections repository.CollectionRepository
	pages       repository.PageRepository
	links       *signing.LinkBuilder
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
}

// NewLinkService builds the service.
func NewLinkService(
	collections repository.CollectionRepository,
	pages repository.PageRepository,
	links *signing.LinkBuilder,
	dispatcher events.Dispatcher,
	metrics *observability.Metrics,
) *LinkService {
	return &LinkService{
		collections: collections,
		pages:       pages,
		links:       links,
		dispatcher:  dispatcher,
		metrics:     metrics,
	}
}

// IssueLink produces a signed render URL for a page the account owns. An
// empty tier defaults to standard; the pro tier requires a premium plan.
func (s *LinkService) IssueLink(ctx context.Context, account *domain.Account, collectionID, pageID string, tier signing.Tier) (*LinkGrant, error) {
	if tier == "" {
		tier = signing.TierStandard
	}
	if !tier.Valid() {
		return nil, apperrors.NewValidationError("unrecognized tier", map[string]any{"tier": string(tier)})
	}
	if tier == signing.TierPro && account.Plan != domain.AccountPlanPremium {
		return nil, apperrors.NewForbidden("pro renders require a premium plan")
	}

	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("collection", map[string]any{"collection_id": collectionID})
		}
		return nil, apperrors.MapError(err)
	}
	if collection.OwnerAccountID != account.ID {
		return nil, apperrors.NewForbidden("collection not owned by caller")
	}

	if _, err := s.pages.GetByID(ctx, collectionID, pageID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("page", map[string]any{"page_id": pageID})
		}
		return nil, apperrors.MapError(err)
	}

	url, err := s.links.BuildURL(collectionID, pageID, tier)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.metrics.RecordLinkIssued()
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:           uuid.NewString(),
			Type:         events.EventLinkIssued,
			CollectionID: collectionID,
			PageID:       pageID,
			Timestamp:    time.Now(),
			Payload:      events.LinkIssuedPayload{AccountID: account.ID, Tier: tier},
		})
	}

	return &LinkGrant{URL: url, Tier: tier, ExpiresIn: signing.ExpiryWindow}, nil
}
