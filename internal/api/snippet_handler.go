package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/workspace"
)

// ListSnippets returns the saved-snippets picker.
func (h *Handler) ListSnippets(c *gin.Context) {
	c.JSON(http.StatusOK, h.ws.Snippets())
}

// SaveSnippet stores the current source under a name. A blank name is an
// abandoned save, not an error.
func (h *Handler) SaveSnippet(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	// No body is a cancelled prompt.
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.ws.Save(c.Request.Context(), body.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save snippet"})
		return
	}
	if !saved {
		c.JSON(http.StatusOK, gin.H{"saved": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": true, "notice": workspace.SavedNotice})
}

// LoadSnippet replaces the editor contents with a saved snippet.
func (h *Handler) LoadSnippet(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snippet index"})
		return
	}
	if _, err := h.ws.Load(index); err != nil {
		if errors.Is(err, workspace.ErrSnippetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.ws.State())
}

// ClearSnippets erases every saved snippet.
func (h *Handler) ClearSnippets(c *gin.Context) {
	if err := h.ws.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear snippets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
