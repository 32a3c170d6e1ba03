package domain

import "time"

// Collection is the owning scope for pages; signed links are bound to it.
type Collection struct {
	ID             string
	OwnerAccountID string
	Title          string
	CreatedAt      time.Time
}
