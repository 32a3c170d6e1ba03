package signing

import (
	"bytes"
	"crypto/hmac"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ExpiryWindow is the fixed validity duration of a token, measured from its
// issuance timestamp.
const ExpiryWindow = 60 * time.Second

// ClockSkewTolerance bounds how far in the future a token's issuance timestamp
// may sit before it is rejected. Issuer and verifier may run on different
// hosts with slightly drifting clocks.
const ClockSkewTolerance = 5 * time.Second

// Rejection reasons returned by Verify. The delivery endpoint collapses all of
// them into one uniform unauthorized response; only logs distinguish them.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Verifier checks delivery tokens produced by an Issuer sharing the same
// secret. It holds no per-call state and is safe for concurrent use.
type Verifier struct {
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewVerifier builds a verifier for the given process-wide secret.
func NewVerifier(secret string, logger *zap.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{secret: []byte(secret), logger: logger, now: time.Now}, nil
}

// Verify decodes the token, checks its signature and age, and returns the
// embedded payload. Matching the payload against the requested resource is the
// caller's responsibility.
func (v *Verifier) Verify(token string) (*Payload, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrMalformed
	}

	// The payload JSON may contain the separator inside string values, so the
	// signature is always the suffix after the last occurrence.
	idx := bytes.LastIndex(decoded, []byte(separator))
	if idx < 0 {
		return nil, ErrMalformed
	}
	serialized, signature := decoded[:idx], decoded[idx+1:]

	expected := sign(serialized, v.secret)
	if !hmac.Equal(signature, expected) {
		v.logger.Warn("delivery token signature mismatch")
		return nil, ErrSignatureInvalid
	}

	var payload Payload
	if err := json.Unmarshal(serialized, &payload); err != nil {
		return nil, ErrMalformed
	}
	if payload.ScopeID == "" || payload.ResourceID == "" || payload.IssuedAtMillis == 0 || !payload.Tier.Valid() {
		return nil, ErrMalformed
	}

	age := v.now().UnixMilli() - payload.IssuedAtMillis
	if age > ExpiryWindow.Milliseconds() || age < -ClockSkewTolerance.Milliseconds() {
		v.logger.Warn("delivery token outside validity window",
			zap.Int64("age_ms", age),
			zap.String("scope_id", payload.ScopeID),
			zap.String("resource_id", payload.ResourceID))
		return nil, ErrExpired
	}

	return &payload, nil
}
