package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// separator joins the serialized payload and its signature inside a token.
// JSON escapes control characters but not '.', so the payload may contain it
// inside string values; the Verifier therefore splits on the last occurrence.
const separator = "."

// ErrMissingSecret indicates the signing secret was absent at startup. It is a
// deployment defect, not a per-request condition.
var ErrMissingSecret = errors.New("signing secret not configured")

// Issuer produces signed, time-bound delivery tokens.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer builds an issuer for the given process-wide secret.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Issuer{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token granting access to the resource at the given tier. The
// issuance timestamp is always taken from the issuer clock, never from the
// caller. An empty tier defaults to standard.
func (i *Issuer) Issue(scopeID, resourceID string, tier Tier) (string, error) {
	if scopeID == "" || resourceID == "" {
		return "", errors.New("scope and resource identifiers required")
	}
	if tier == "" {
		tier = TierStandard
	}
	if !tier.Valid() {
		return "", fmt.Errorf("unrecognized tier %q", tier)
	}

	payload := Payload{
		ScopeID:        scopeID,
		ResourceID:     resourceID,
		IssuedAtMillis: i.now().UnixMilli(),
		Tier:           tier,
	}
	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	signature := sign(serialized, i.secret)
	return base64.RawURLEncoding.EncodeToString(append(append(serialized, separator...), signature...)), nil
}

// sign computes the hex-encoded HMAC-SHA256 of the exact payload bytes.
func sign(payload, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	sum := mac.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}
