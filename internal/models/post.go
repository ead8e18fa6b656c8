package models

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ValidStatuses defines allowed post statuses
var ValidStatuses = map[string]bool{
	StatusDraft:     true,
	StatusPublished: true,
}

// StoredPost is one immutable version of a post as held in the content
// store. Timestamps are second-precision ISO-8601 UTC strings so that string
// order equals chronological order; the store's sort keys depend on that.
type StoredPost struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	CoverURL    string   `json:"coverUrl,omitempty"`
	Status      string   `json:"status"`
	PublishedAt string   `json:"publishedAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// PostInput is the create-post request body. Tags accepts either a JSON
// array or a single comma-separated string.
type PostInput struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Slug     string  `json:"slug"`
	Status   string  `json:"status"`
	Tags     TagList `json:"tags"`
	Author   string  `json:"author"`
	CoverURL string  `json:"coverUrl"`
}

// PostPage is one page of a published-posts listing
type PostPage struct {
	Items      []*StoredPost `json:"items"`
	NextCursor string        `json:"nextCursor,omitempty"`
}
