// Package runner drives a single code run: it submits the editor contents to
// the execution provider, picks the output to display and points the editor
// at the line an error message names.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/language"
)

// Editor is the subset of the editor widget a run drives.
type Editor interface {
	ClearHighlights()
	RevealLine(line int)
	HighlightLine(line int)
}

// Logger is the diagnostic channel for failed runs.
// *slog.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Report summarises a finished run for downstream consumers.
type Report struct {
	RunID      uuid.UUID     `json:"run_id"`
	LanguageID int           `json:"language_id"`
	Language   string        `json:"language"`
	Channel    Channel       `json:"channel"`
	Output     string        `json:"output"`
	Line       int           `json:"line,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ReportPublisher receives a Report after every run that was not superseded.
type ReportPublisher interface {
	PublishRunReport(ctx context.Context, report Report) error
}

// Display is what a run hands back to the view.
type Display struct {
	RunID     uuid.UUID  `json:"run_id"`
	Seq       uint64     `json:"seq"`
	Output    string     `json:"output"`
	Channel   Channel    `json:"channel"`
	Highlight *Highlight `json:"highlight,omitempty"`
	// Stale is set when a newer run started before this one finished;
	// a stale result changes no state.
	Stale bool `json:"stale,omitempty"`
}

// Config wires an Orchestrator. Provider is required; the rest are optional.
type Config struct {
	Provider code.Provider
	Editor   Editor
	Logger   Logger
	Reports  ReportPublisher
}

// Orchestrator owns the busy flag, the displayed output and the editor
// highlight for one workspace.
type Orchestrator struct {
	provider code.Provider
	editor   Editor
	logger   Logger
	reports  ReportPublisher

	mu     sync.Mutex
	seq    uint64
	busy   bool
	output string
}

func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		provider: cfg.Provider,
		editor:   cfg.Editor,
		logger:   logger,
		reports:  cfg.Reports,
	}
}

// Busy reports whether the most recent run is still outstanding.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Output returns the currently displayed output.
func (o *Orchestrator) Output() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.output
}

// Run executes source as profile with the given stdin and blocks until the
// provider answers. Transport failures are absorbed into FailureOutput.
// Every call gets a sequence number; only the latest run may update the
// output, the highlight and the busy flag.
func (o *Orchestrator) Run(ctx context.Context, source string, profile language.Profile, stdin string) Display {
	d := Display{RunID: uuid.New()}

	o.mu.Lock()
	o.seq++
	d.Seq = o.seq
	o.busy = true
	o.output = ""
	if o.editor != nil {
		o.editor.ClearHighlights()
	}
	o.mu.Unlock()

	start := time.Now()
	sub, err := o.provider.Execute(ctx, code.Request{
		SourceCode: source,
		LanguageID: profile.ID,
		Stdin:      stdin,
	})
	elapsed := time.Since(start)

	if err != nil {
		d.Output, d.Channel = FailureOutput, ChannelFailure
		o.logger.Error("code execution failed",
			"run_id", d.RunID, "language", profile.Name, "error", err)
	} else {
		d.Output, d.Channel = SelectOutput(sub)
		if d.Channel.IsError() {
			if h, ok := ParseErrorLine(d.Output); ok {
				d.Highlight = &h
			}
		}
	}

	o.mu.Lock()
	if d.Seq != o.seq {
		o.mu.Unlock()
		d.Stale = true
		o.logger.Info("discarding superseded run result", "run_id", d.RunID, "seq", d.Seq)
		return d
	}
	o.output = d.Output
	if d.Highlight != nil && o.editor != nil {
		o.editor.RevealLine(d.Highlight.Line)
		o.editor.HighlightLine(d.Highlight.Line)
	}
	o.busy = false
	o.mu.Unlock()

	o.publish(ctx, profile, d, elapsed, err)
	return d
}

func (o *Orchestrator) publish(ctx context.Context, profile language.Profile, d Display, elapsed time.Duration, runErr error) {
	if o.reports == nil {
		return
	}
	r := Report{
		RunID:      d.RunID,
		LanguageID: profile.ID,
		Language:   profile.Name,
		Channel:    d.Channel,
		Output:     d.Output,
		Duration:   elapsed,
		Timestamp:  time.Now().UTC(),
	}
	if d.Highlight != nil {
		r.Line = d.Highlight.Line
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	if err := o.reports.PublishRunReport(context.WithoutCancel(ctx), r); err != nil {
		o.logger.Warn("publish run report", "run_id", d.RunID, "error", err)
	}
}
