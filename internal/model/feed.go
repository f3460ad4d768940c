package model

import "time"

// Feed page-size defaults
const (
	PersonalFeedPageSize = 10
	GlobalFeedPageSize   = 20
	FeedMaxPageSize      = 50
)

// FeedFilters are the optional personal-feed filters. DateFrom/DateTo are
// inclusive calendar bounds on created_at; Username is an exact author
// override; Content is a case-insensitive substring match.
type FeedFilters struct {
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Username string     `json:"username,omitempty"`
	Content  string     `json:"content,omitempty"`
}

// IsZero reports whether no filter is set.
func (f FeedFilters) IsZero() bool {
	return f.DateFrom == nil && f.DateTo == nil && f.Username == "" && f.Content == ""
}

// FeedQuery is the repository-level feed selection. When PersonalFor is set
// the base set is that user's own posts plus their followees' posts;
// otherwise it is every non-deleted post.
type FeedQuery struct {
	PersonalFor *int64
	Filters     FeedFilters
	Limit       int
	Offset      int
}

// FeedResponse is a feed page: posts annotated for the viewer, pagination
// metadata, and an echo of the applied filters.
type FeedResponse struct {
	Posts      []Post       `json:"posts"`
	Pagination Pagination   `json:"pagination"`
	Filters    *FeedFilters `json:"filters,omitempty"`
}
