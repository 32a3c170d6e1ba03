package domain

import "time"

// Page is a renderable item inside a collection.
type Page struct {
	ID           string
	CollectionID string
	Title        string
	Markup       string
	AssetKey     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
