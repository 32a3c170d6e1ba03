package dto

// LinkRequest payload for requesting a signed render link.
type LinkRequest struct {
	Tier string `json:"tier"`
}

// LinkResponse carries the signed delivery URL.
type LinkResponse struct {
	URL         string `json:"url"`
	Tier        string `json:"tier"`
	ExpiresInMs int64  `json:"expires_in_ms"`
}
