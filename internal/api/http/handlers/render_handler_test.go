package handlers_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/page-delivery-service/internal/api/http"
	"github.com/spec-kit/page-delivery-service/internal/api/http/handlers"
	"github.com/spec-kit/page-delivery-service/internal/auth"
	"github.com/spec-kit/page-delivery-service/internal/config"
	"github.com/spec-kit/page-delivery-service/internal/domain"
	"github.com/spec-kit/page-delivery-service/internal/events"
	"github.com/spec-kit/page-delivery-service/internal/observability"
	"github.com/spec-kit/page-delivery-service/internal/persistence"
	"github.com/spec-kit/page-delivery-service/internal/repository"
	"github.com/spec-kit/page-delivery-service/internal/service"
	"github.com/spec-kit/page-delivery-service/internal/signing"
)

const linkSecret = "handler-test-secret"

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeCollectionRepo struct {
	collections map[string]*domain.Collection
}

func (f *fakeCollectionRepo) Create(_ context.Context, collection *domain.Collection) error {
	f.collections[collection.ID] = collection
	return nil
}

func (f *fakeCollectionRepo) GetByID(_ context.Context, id string) (*domain.Collection, error) {
	collection, ok := f.collections[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return collection, nil
}

func (f *fakeCollectionRepo) ListByOwner(_ context.Context, _ string) ([]domain.Collection, error) {
	return nil, nil
}

type fakePageRepo struct {
	pages map[string]*domain.Page
}

func (f *fakePageRepo) Create(_ context.Context, page *domain.Page) error {
	f.pages[page.CollectionID+"/"+page.ID] = page
	return nil
}

func (f *fakePageRepo) GetByID(_ context.Context, collectionID, pageID string) (*domain.Page, error) {
	page, ok := f.pages[collectionID+"/"+pageID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return page, nil
}

func (f *fakePageRepo) ListByCollection(_ context.Context, _ string) ([]domain.Page, error) {
	return nil, nil
}

var _ repository.AccountRepository = (*fakeAccountRepo)(nil)
var _ repository.CollectionRepository = (*fakeCollectionRepo)(nil)
var _ repository.PageRepository = (*fakePageRepo)(nil)

type fixture struct {
	app     *fiber.App
	session string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	owner := &domain.Account{
		ID:     "acc-1",
		Name:   "Owner",
		Email:  "owner@example.com",
		Plan:   domain.AccountPlanPremium,
		Status: domain.AccountStatusActive,
	}
	accounts := &fakeAccountRepo{accounts: map[string]*domain.Account{owner.ID: owner}}
	collections := &fakeCollectionRepo{collections: map[string]*domain.Collection{
		"fam-123": {ID: "fam-123", OwnerAccountID: owner.ID, Title: "Family Album"},
	}}
	pages := &fakePageRepo{pages: map[string]*domain.Page{
		"fam-123/page-7": {ID: "page-7", CollectionID: "fam-123", Title: "Page Seven", Markup: "<p>hello</p>"},
	}}

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "session-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = 4

	issuer, err := signing.NewIssuer(linkSecret)
	require.NoError(t, err)
	verifier, err := signing.NewVerifier(linkSecret, zap.NewNop())
	require.NoError(t, err)
	builder := signing.NewLinkBuilder(issuer, "http://delivery.test")

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, accounts)
	linkService := service.NewLinkService(collections, pages, builder, dispatcher, metrics)
	renderService := service.NewRenderService(pages, &persistence.Redis{}, dispatcher, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Links:          handlers.NewLinksHandler(linkService),
		Render:         handlers.NewRenderHandler(verifier, renderService, dispatcher, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), accounts),
	})

	session, _, err := authService.TokenManager().GenerateToken(owner)
	require.NoError(t, err)

	return &fixture{app: app, session: session}
}

func (f *fixture) issueLink(t *testing.T, tier string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/collections/fam-123/pages/page-7/link", strings.NewReader(`{"tier":"`+tier+`"}`))
	req.Header.Set("Authorization", "Bearer "+f.session)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Data.URL)
	return strings.TrimPrefix(body.Data.URL, "http://delivery.test")
}

func forgeToken(t *testing.T, secret string, payload signing.Payload) string {
	t.Helper()

	serialized, err := json.Marshal(payload)
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(serialized)
	signature := hex.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString(append(append(serialized, '.'), signature...))
}

func TestRender_IssuedLinkGrantsAccess(t *testing.T) {
	f := newFixture(t)
	path := f.issueLink(t, "pro")

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<p>hello</p>")
	assert.NotContains(t, string(body), "watermark")
}

func TestRender_UniformRejection(t *testing.T) {
	f := newFixture(t)
	path := f.issueLink(t, "standard")

	expired := forgeToken(t, linkSecret, signing.Payload{
		ScopeID:        "fam-123",
		ResourceID:     "page-7",
		IssuedAtMillis: time.Now().Add(-2 * time.Minute).UnixMilli(),
		Tier:           signing.TierStandard,
	})
	foreign := forgeToken(t, "some-other-secret", signing.Payload{
		ScopeID:        "fam-123",
		ResourceID:     "page-7",
		IssuedAtMillis: time.Now().UnixMilli(),
		Tier:           signing.TierStandard,
	})

	validToken := path[strings.Index(path, "token=")+len("token="):]
	tampered := []byte(validToken)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	cases := []struct {
		name string
		path string
	}{
		{"missing token", "/render/fam-123/page-7"},
		{"garbage token", "/render/fam-123/page-7?token=!!!"},
		{"tampered token", "/render/fam-123/page-7?token=" + string(tampered)},
		{"expired token", "/render/fam-123/page-7?token=" + expired},
		{"foreign secret", "/render/fam-123/page-7?token=" + foreign},
		{"token for another page", "/render/fam-123/page-8?token=" + validToken},
		{"token for another collection", "/render/fam-999/page-7?token=" + validToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			// Every rejection reads the same to the client.
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "link invalid or expired")
		})
	}
}

func TestRender_ValidTokenUnknownPageIsNotFound(t *testing.T) {
	f := newFixture(t)

	token := forgeToken(t, linkSecret, signing.Payload{
		ScopeID:        "fam-123",
		ResourceID:     "page-404",
		IssuedAtMillis: time.Now().UnixMilli(),
		Tier:           signing.TierStandard,
	})

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/render/fam-123/page-404?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLinks_RequireSession(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/collections/fam-123/pages/page-7/link", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLinks_TokenRoundTripThroughIssuedURL(t *testing.T) {
	f := newFixture(t)
	path := f.issueLink(t, "")

	// Default tier is standard; the render should carry the watermark.
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "watermark")
}
