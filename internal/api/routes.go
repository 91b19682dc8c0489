package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/workspace"
)

func RegisterRoutes(r *gin.Engine, ws *workspace.Workspace, providers map[string]code.Provider) *Handler {
	h := &Handler{
		ws:        ws,
		providers: providers,
	}

	r.GET("/healthz", h.Health)
	r.GET("/languages", h.ListLanguages)

	wsGroup := r.Group("/workspace")
	{
		wsGroup.GET("", h.GetWorkspace)
		wsGroup.PUT("/source", h.SetSource)
		wsGroup.PUT("/stdin", h.SetStdin)
		wsGroup.POST("/language", h.ChangeLanguage)
		wsGroup.POST("/run", h.Run)
		wsGroup.POST("/import", h.Import)
	}

	snippets := r.Group("/snippets")
	{
		snippets.GET("", h.ListSnippets)
		snippets.POST("", h.SaveSnippet)
		snippets.POST("/:index/load", h.LoadSnippet)
		snippets.DELETE("", h.ClearSnippets)
	}

	// Stateless execution, bypassing the workspace.
	r.POST("/code/:provider/execute", h.ExecuteCode)

	return h
}
