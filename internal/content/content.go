// Package content is the data-modeling core: it encodes posts, post
// versions and comments into partition/sort keys, builds the range queries
// behind every read, and paginates results with opaque cursors. Handlers
// are thin wrappers around this package.
package content

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/slug"
	"github.com/blog-content-api/internal/store"
)

// Listing limits. The posts path has no documented cap upstream; 100 is the
// safety bound.
const (
	defaultPostLimit    = 10
	maxPostLimit        = 100
	defaultCommentLimit = 20
	maxCommentLimit     = 50
)

// defaultAuthor is used when a post is created without an author field.
const defaultAuthor = "Anonymous"

// Store orchestrates reads and writes against the underlying
// range-queryable key-value store. All dependencies are explicit; there is
// no ambient state, so tests run against the in-memory backend.
type Store struct {
	db    store.Store
	table string
	log   zerolog.Logger

	// injectable for deterministic tests
	now   func() time.Time
	newID func() string
}

// New creates a content store over the given backend and table
func New(db store.Store, table string, log zerolog.Logger) *Store {
	return &Store{
		db:    db,
		table: table,
		log:   log.With().Str("component", "content").Logger(),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// CreatePostVersion validates and writes one new immutable post version.
// Versions are append-only: an update to an existing slug inserts a new
// item under the same partition, and "latest" is derived at read time.
func (s *Store) CreatePostVersion(ctx context.Context, in *models.PostInput) (*models.StoredPost, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title"}
	}
	body := strings.TrimSpace(in.Content)
	if body == "" {
		return nil, &ValidationError{Field: "content"}
	}

	postSlug := slug.Normalize(in.Slug)
	if postSlug == "" {
		postSlug = slug.FromTitle(title)
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !models.ValidStatuses[status] {
		status = models.StatusPublished
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = defaultAuthor
	}

	tags := []string(in.Tags)
	if tags == nil {
		tags = []string{}
	}

	now := formatTimestamp(s.now())
	post := &models.StoredPost{
		Slug:        postSlug,
		Title:       title,
		Content:     body,
		Author:      author,
		Tags:        tags,
		CoverURL:    strings.TrimSpace(in.CoverURL),
		Status:      status,
		PublishedAt: now,
		UpdatedAt:   now,
	}

	pk, sk := postVersionKey(postSlug, now)
	gsi1pk, gsi1sk := publishedIndexKey(status, now, postSlug)
	item := store.Item{
		store.AttrPK:     pk,
		store.AttrSK:     sk,
		store.AttrGSI1PK: gsi1pk,
		store.AttrGSI1SK: gsi1sk,
		"slug":           post.Slug,
		"title":          post.Title,
		"content":        post.Content,
		"author":         post.Author,
		"tags":           post.Tags,
		"status":         post.Status,
		"publishedAt":    post.PublishedAt,
		"updatedAt":      post.UpdatedAt,
	}
	if post.CoverURL != "" {
		item["coverUrl"] = post.CoverURL
	}

	if err := s.db.PutItem(ctx, s.table, item); err != nil {
		return nil, fmt.Errorf("writing post version: %w", err)
	}

	s.log.Info().Str("slug", postSlug).Str("status", status).Msg("Post version created")
	return post, nil
}

// CreateComment validates and writes one visitor comment. Oversized author
// and content fields are truncated silently. The email, when supplied, is
// stored only as a one-way digest for avatar lookup; without an email the
// digest field is omitted entirely.
func (s *Store) CreateComment(ctx context.Context, postSlug string, in *models.CommentInput) (*models.StoredComment, error) {
	postSlug = slug.Normalize(postSlug)
	if postSlug == "" {
		return nil, &ValidationError{Field: "slug"}
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		return nil, &ValidationError{Field: "author"}
	}
	body := strings.TrimSpace(in.Content)
	if body == "" {
		return nil, &ValidationError{Field: "content"}
	}

	comment := &models.StoredComment{
		ID:        s.newID(),
		Author:    truncate(author, models.MaxCommentAuthorLen),
		Content:   truncate(body, models.MaxCommentContentLen),
		CreatedAt: formatTimestamp(s.now()),
		Status:    models.CommentStatusPending,
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		comment.EmailHash = emailDigest(email)
	}

	pk, sk := commentKey(postSlug, comment.CreatedAt, comment.ID)
	item := store.Item{
		store.AttrPK: pk,
		store.AttrSK: sk,
		"id":         comment.ID,
		"author":     comment.Author,
		"content":    comment.Content,
		"createdAt":  comment.CreatedAt,
		"status":     comment.Status,
	}
	if comment.EmailHash != "" {
		item["emailHash"] = comment.EmailHash
	}

	if err := s.db.PutItem(ctx, s.table, item); err != nil {
		return nil, fmt.Errorf("writing comment: %w", err)
	}

	s.log.Info().Str("slug", postSlug).Str("comment_id", comment.ID).Msg("Comment created")
	return comment, nil
}

// GetLatestPost returns the current version of a post: the greatest META#
// sort key in the slug's partition.
func (s *Store) GetLatestPost(ctx context.Context, postSlug string) (*models.StoredPost, error) {
	postSlug = slug.Normalize(postSlug)
	if postSlug == "" {
		return nil, &ValidationError{Field: "slug"}
	}

	res, err := s.db.Query(ctx, store.Query{
		Table:      s.table,
		Partition:  postPartition(postSlug),
		SortPrefix: metaSortPrefix,
		Limit:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("querying latest post: %w", err)
	}
	if len(res.Items) == 0 {
		return nil, ErrNotFound
	}
	return postFromItem(res.Items[0]), nil
}

// ListPublishedPosts returns one page of published posts, newest first,
// via the secondary status+recency ordering.
func (s *Store) ListPublishedPosts(ctx context.Context, limit int, cursor string) (*models.PostPage, error) {
	if limit <= 0 {
		limit = defaultPostLimit
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}

	res, err := s.db.Query(ctx, store.Query{
		Table:             s.table,
		Index:             store.IndexGSI1,
		Partition:         models.StatusPublished,
		Limit:             limit,
		ExclusiveStartKey: store.DecodeCursor(cursor),
	})
	if err != nil {
		return nil, fmt.Errorf("querying published posts: %w", err)
	}

	page := &models.PostPage{Items: make([]*models.StoredPost, 0, len(res.Items))}
	for _, item := range res.Items {
		page.Items = append(page.Items, postFromItem(item))
	}
	page.NextCursor = store.EncodeCursor(res.LastEvaluatedKey)
	return page, nil
}

// ListComments returns one page of a post's comments, newest first. The
// optional status filter applies after the pagination window is cut, so a
// filtered page may hold fewer than limit items even when more unfiltered
// results exist.
func (s *Store) ListComments(ctx context.Context, postSlug string, limit int, statusFilter, cursor string) (*models.CommentPage, error) {
	postSlug = slug.Normalize(postSlug)
	if postSlug == "" {
		return nil, &ValidationError{Field: "slug"}
	}

	if limit == 0 {
		limit = defaultCommentLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxCommentLimit {
		limit = maxCommentLimit
	}

	q := store.Query{
		Table:             s.table,
		Partition:         postPartition(postSlug),
		SortPrefix:        commentSortPrefix,
		Limit:             limit,
		ExclusiveStartKey: store.DecodeCursor(cursor),
	}
	if status := strings.ToLower(strings.TrimSpace(statusFilter)); status != "" {
		q.FilterField = "status"
		q.FilterValue = status
	}

	res, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}

	page := &models.CommentPage{Items: make([]*models.StoredComment, 0, len(res.Items))}
	for _, item := range res.Items {
		page.Items = append(page.Items, commentFromItem(item))
	}
	page.NextCursor = store.EncodeCursor(res.LastEvaluatedKey)
	return page, nil
}

// truncate cuts s to at most n characters (code points, not bytes).
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// emailDigest hashes a normalized email for gravatar-style avatar lookup.
// The raw address is never stored.
func emailDigest(email string) string {
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}

// Item attribute extraction. Backends hand back list values as either
// []string (memory) or []any (JSON/DynamoDB unmarshalling), so both shapes
// are accepted.

func itemString(item store.Item, key string) string {
	s, _ := item[key].(string)
	return s
}

func itemStrings(item store.Item, key string) []string {
	switch v := item[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func postFromItem(item store.Item) *models.StoredPost {
	return &models.StoredPost{
		Slug:        itemString(item, "slug"),
		Title:       itemString(item, "title"),
		Content:     itemString(item, "content"),
		Author:      itemString(item, "author"),
		Tags:        itemStrings(item, "tags"),
		CoverURL:    itemString(item, "coverUrl"),
		Status:      itemString(item, "status"),
		PublishedAt: itemString(item, "publishedAt"),
		UpdatedAt:   itemString(item, "updatedAt"),
	}
}

func commentFromItem(item store.Item) *models.StoredComment {
	return &models.StoredComment{
		ID:        itemString(item, "id"),
		Author:    itemString(item, "author"),
		Content:   itemString(item, "content"),
		EmailHash: itemString(item, "emailHash"),
		CreatedAt: itemString(item, "createdAt"),
		Status:    itemString(item, "status"),
	}
}
