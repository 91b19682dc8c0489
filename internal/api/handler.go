package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/workspace"
)

type Handler struct {
	ws        *workspace.Workspace
	providers map[string]code.Provider
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLanguages returns the language selector entries.
func (h *Handler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": language.All()})
}

// GetWorkspace returns everything the page renders.
func (h *Handler) GetWorkspace(c *gin.Context) {
	c.JSON(http.StatusOK, h.ws.State())
}

// SetSource replaces the editor text with the user's edits.
func (h *Handler) SetSource(c *gin.Context) {
	var body struct {
		Source string `json:"source"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.ws.SetSource(body.Source)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetStdin replaces the program input.
func (h *Handler) SetStdin(c *gin.Context) {
	var body struct {
		Stdin string `json:"stdin"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.ws.SetStdin(body.Stdin)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ChangeLanguage switches language and loads its sample, discarding edits.
func (h *Handler) ChangeLanguage(c *gin.Context) {
	var body struct {
		LanguageID int `json:"language_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.ws.ChangeLanguage(body.LanguageID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.ws.State())
}

// Run executes the workspace source. Transport failures are reported in the
// output text with a 200; only an overlapping run is rejected.
func (h *Handler) Run(c *gin.Context) {
	d, err := h.ws.Run(c.Request.Context())
	if errors.Is(err, workspace.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// Import loads a file into the editor and selects its language.
func (h *Handler) Import(c *gin.Context) {
	var body struct {
		Filename string `json:"filename"`
		Source   string `json:"source"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.ws.Import(body.Filename, body.Source)
	if errors.Is(err, language.ErrNotDetected) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": p})
}
