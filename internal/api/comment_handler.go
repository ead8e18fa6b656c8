package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/content"
	"github.com/blog-content-api/internal/models"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	store *content.Store
	log   zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(store *content.Store, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		store: store,
		log:   log.With().Str("handler", "comment").Logger(),
	}
}

// CreateComment handles POST /v1/posts/:slug/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var in models.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.store.CreateComment(c.Request.Context(), c.Param("slug"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /v1/posts/:slug/comments — newest first, with
// optional status filter and cursor-based pagination
func (h *CommentHandler) ListComments(c *gin.Context) {
	page, err := h.store.ListComments(
		c.Request.Context(),
		c.Param("slug"),
		queryInt(c, "limit"),
		c.Query("status"),
		c.Query("cursor"),
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
