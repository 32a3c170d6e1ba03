package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/page-delivery-service/internal/domain"
	"github.com/spec-kit/page-delivery-service/internal/events"
	"github.com/spec-kit/page-delivery-service/internal/persistence"
	"github.com/spec-kit/page-delivery-service/internal/signing"
	apperrors "github.com/spec-kit/page-delivery-service/pkg/util/errorutil"
)

func newRenderFixture() (*RenderService, events.Dispatcher) {
	pages := &fakePageRepo{pages: map[string]*domain.Page{
		pageKey("fam-123", "page-7"): {
			ID:           "page-7",
			CollectionID: "fam-123",
			Title:        "Page Seven",
			Markup:       "<p>hello</p>",
			AssetKey:     "assets/page-7",
		},
	}}
	dispatcher := events.NewInMemoryDispatcher()
	// A Redis wrapper without a client degrades to a no-op cache.
	return NewRenderService(pages, &persistence.Redis{}, dispatcher, zap.NewNop()), dispatcher
}

func TestRenderService_StandardTier(t *testing.T) {
	svc, dispatcher := newRenderFixture()

	var served []events.Event
	dispatcher.Subscribe(events.EventRenderServed, func(_ context.Context, event events.Event) error {
		served = append(served, event)
		return nil
	})

	result, err := svc.Render(context.Background(), &signing.Payload{
		ScopeID: "fam-123", ResourceID: "page-7", IssuedAtMillis: 1, Tier: signing.TierStandard,
	})
	require.NoError(t, err)

	body := string(result.Body)
	assert.Contains(t, body, "<p>hello</p>")
	assert.Contains(t, body, "watermark")
	assert.Contains(t, body, "assets/page-7.preview")
	assert.Contains(t, body, `class="tier-standard"`)
	assert.False(t, result.Cached)
	assert.Equal(t, "text/html; charset=utf-8", result.ContentType)

	require.Len(t, served, 1)
}

func TestRenderService_ProTier(t *testing.T) {
	svc, _ := newRenderFixture()

	result, err := svc.Render(context.Background(), &signing.Payload{
		ScopeID: "fam-123", ResourceID: "page-7", IssuedAtMillis: 1, Tier: signing.TierPro,
	})
	require.NoError(t, err)

	body := string(result.Body)
	assert.NotContains(t, body, "watermark")
	assert.Contains(t, body, `src="/assets/assets/page-7"`)
	assert.Contains(t, body, `class="tier-pro"`)
}

func TestRenderService_UnknownPage(t *testing.T) {
	svc, _ := newRenderFixture()

	_, err := svc.Render(context.Background(), &signing.Payload{
		ScopeID: "fam-123", ResourceID: "page-999", IssuedAtMillis: 1, Tier: signing.TierStandard,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
