package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/content"
	"github.com/blog-content-api/internal/models"
)

// PostHandler handles post endpoints
type PostHandler struct {
	store *content.Store
	log   zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(store *content.Store, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		store: store,
		log:   log.With().Str("handler", "post").Logger(),
	}
}

// CreatePost handles POST /v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.store.CreatePostVersion(c.Request.Context(), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPost handles GET /v1/posts/:slug — the latest version of the post
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.store.GetLatestPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListPosts handles GET /v1/posts — published posts, newest first
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, err := h.store.ListPublishedPosts(c.Request.Context(), queryInt(c, "limit"), c.Query("cursor"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PostHandler) respondError(c *gin.Context, err error) {
	respondError(c, h.log, err)
}

// respondError maps domain errors onto status codes. Anything unclassified
// is a 500 with a generic body; the detail stays in the logs.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var ve *content.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// queryInt parses an integer query parameter; 0 means absent or invalid,
// letting the content layer apply its defaults.
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
