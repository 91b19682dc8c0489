package codepad

// Language is one entry of the language selector.
type Language struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Mode   string `json:"ext"`
	Sample string `json:"sample"`
}

// Workspace is the state behind the editor page.
type Workspace struct {
	Language     Language `json:"language"`
	Source       string   `json:"source"`
	Mode         string   `json:"mode"`
	Stdin        string   `json:"stdin"`
	Output       string   `json:"output"`
	Busy         bool     `json:"busy"`
	Highlights   []int    `json:"highlights"`
	RevealedLine int      `json:"revealed_line,omitempty"`
	Notice       string   `json:"notice,omitempty"`
	Snippets     int      `json:"snippets"`
}

// Highlight is the line an error message points at.
type Highlight struct {
	Line int `json:"line"`
}

// RunResult is the outcome of a run.
// Channel is one of stdout, stderr, compile_output, none or failure.
type RunResult struct {
	RunID     string     `json:"run_id"`
	Seq       uint64     `json:"seq"`
	Output    string     `json:"output"`
	Channel   string     `json:"channel"`
	Highlight *Highlight `json:"highlight,omitempty"`
	Stale     bool       `json:"stale,omitempty"`
}

// Snippet is a saved piece of source.
type Snippet struct {
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

// SnippetList is the content of the saved-snippets picker.
type SnippetList struct {
	Snippets     []Snippet `json:"snippets"`
	EmptyMessage string    `json:"empty_message,omitempty"`
}

// SaveResponse reports whether a save happened. A blank name is not saved.
type SaveResponse struct {
	Saved  bool   `json:"saved"`
	Notice string `json:"notice,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type languagesResponse struct {
	Languages []Language `json:"languages"`
}
