package models

// RecommendationRequest is the POST /recommend request body. UserID is the
// caller's external identifier; nil means an anonymous submission.
type RecommendationRequest struct {
	EntryType EntryType         `json:"entry_type"`
	Answers   map[string]string `json:"answers"`
	UserID    *string           `json:"user_id,omitempty"`
}
