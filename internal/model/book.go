// Package model defines data structures for the reading-community platform.
package model

// RecommendationSource identifies where a recommendation list came from.
type RecommendationSource string

const (
	SourceGenerative RecommendationSource = "generative"
	SourceFallback   RecommendationSource = "fallback"
)

// BookRecommendation is a single recommended book. Produced fresh on every
// recommendation event and never mutated after being returned.
type BookRecommendation struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       string  `json:"genre,omitempty"`
	Description string  `json:"description,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	TrendReason string  `json:"trendReason,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Readers     int     `json:"readers,omitempty"`
	Pages       int     `json:"pages,omitempty"`
	Year        int     `json:"year,omitempty"`
}

// BookDetail is the object-shaped payload for a single book lookup.
type BookDetail struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Genre       string   `json:"genre,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Pages       int      `json:"pages,omitempty"`
	Year        int      `json:"year,omitempty"`
	Themes      []string `json:"themes,omitempty"`
}

// TrendingResponse is the response for the trending books endpoint.
type TrendingResponse struct {
	Books   []BookRecommendation `json:"books"`
	Page    int                  `json:"page"`
	HasMore bool                 `json:"hasMore"`
	Cached  bool                 `json:"cached"`
	Source  RecommendationSource `json:"source"`
}

// RecommendRequest is the request for a direct (session-less) recommendation.
type RecommendRequest struct {
	Query string `json:"query" validate:"required"`
	Page  int    `json:"page" validate:"omitempty,min=1"`
}

// RecommendResponse is the response for a direct recommendation.
type RecommendResponse struct {
	Recommendations []BookRecommendation `json:"recommendations"`
	Page            int                  `json:"page"`
	HasMore         bool                 `json:"hasMore"`
	Source          RecommendationSource `json:"source"`
}

// CharacterRequest asks for books featuring a kind of character.
type CharacterRequest struct {
	Character string `json:"character" validate:"required"`
}

// SimilarRequest asks for books similar to a given title.
type SimilarRequest struct {
	Title string `json:"title" validate:"required"`
}

// DetailResponse wraps a single book detail lookup.
type DetailResponse struct {
	Book   *BookDetail          `json:"book"`
	Source RecommendationSource `json:"source"`
}
