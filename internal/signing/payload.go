package signing

// Tier enumerates render quality levels a link can grant.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPro      Tier = "pro"
)

// Valid reports whether the tier is one of the recognized values.
func (t Tier) Valid() bool {
	switch t {
	case TierStandard, TierPro:
		return true
	}
	return false
}

// Payload is the signed unit embedded in a delivery token. It is built by the
// Issuer, serialized once, and never mutated afterwards.
type Payload struct {
	ScopeID        string `json:"scopeId"`
	ResourceID     string `json:"resourceId"`
	IssuedAtMillis int64  `json:"issuedAtMillis"`
	Tier           Tier   `json:"tier"`
}
