package signing

import "fmt"

// DefaultBaseURL is used when DELIVERY_BASE_URL is not configured.
const DefaultBaseURL = "http://localhost:8080"

// LinkBuilder composes the Issuer with the delivery endpoint to produce
// directly fetchable render URLs.
type LinkBuilder struct {
	issuer  *Issuer
	baseURL string
}

// NewLinkBuilder builds a link builder. An empty base URL falls back to
// DefaultBaseURL.
func NewLinkBuilder(issuer *Issuer, baseURL string) *LinkBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &LinkBuilder{issuer: issuer, baseURL: baseURL}
}

// BuildURL issues a token and interpolates the delivery endpoint with the
// scope and resource as path segments and the token as a query parameter.
func (b *LinkBuilder) BuildURL(scopeID, resourceID string, tier Tier) (string, error) {
	token, err := b.issuer.Issue(scopeID, resourceID, tier)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/render/%s/%s?token=%s", b.baseURL, scopeID, resourceID, token), nil
}
