package models

// Comment statuses. A comment always starts pending; moderation moves it to
// approved or rejected out-of-band.
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

// Limits applied to comment submissions. Oversized fields are truncated
// silently rather than rejected.
const (
	MaxCommentAuthorLen  = 80
	MaxCommentContentLen = 5000
)

// StoredComment is one visitor comment as held in the content store.
// EmailHash is a one-way digest used for avatar lookup; it is omitted
// entirely when no email was supplied.
type StoredComment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	EmailHash string `json:"emailHash,omitempty"`
	CreatedAt string `json:"createdAt"`
	Status    string `json:"status"`
}

// CommentInput is the create-comment request body
type CommentInput struct {
	Author  string `json:"author"`
	Content string `json:"content"`
	Email   string `json:"email"`
}

// CommentPage is one page of a post's comment listing
type CommentPage struct {
	Items      []*StoredComment `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
