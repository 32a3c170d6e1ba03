package domain

// RenderResult carries a rendered page document.
type RenderResult struct {
	ContentType string
	Body        []byte
	Cached      bool
}
