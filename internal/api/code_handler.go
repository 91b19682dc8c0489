package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/runner"
)

// ExecuteCode runs source directly without touching the workspace.
//
// Request body:
//
//	{
//	  "source_code": "print('hello')",
//	  "language_id": 71,         // Judge0 language ID (71 = Python 3)
//	  "stdin":       "optional"
//	}
//
// Returns the raw submission together with the output the editor would show.
func (h *Handler) ExecuteCode(c *gin.Context) {
	providerName := c.Param("provider")

	var body struct {
		SourceCode string `json:"source_code"`
		LanguageID int    `json:"language_id" binding:"required"`
		Stdin      string `json:"stdin"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := language.Lookup(body.LanguageID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported language_id %d", body.LanguageID)})
		return
	}

	p, err := h.buildCodeProvider(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := p.Execute(c.Request.Context(), code.Request{
		SourceCode: body.SourceCode,
		LanguageID: body.LanguageID,
		Stdin:      body.Stdin,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "output": runner.FailureOutput})
		return
	}

	output, channel := runner.SelectOutput(sub)
	resp := gin.H{
		"submission": sub,
		"output":     output,
		"channel":    channel,
	}
	if channel.IsError() {
		if hl, ok := runner.ParseErrorLine(output); ok {
			resp["highlight"] = hl
		}
	}
	c.JSON(http.StatusOK, resp)
}

// buildCodeProvider returns the configured provider with the given name.
func (h *Handler) buildCodeProvider(providerName string) (code.Provider, error) {
	p, ok := h.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("unsupported code provider: %s", providerName)
	}
	return p, nil
}
