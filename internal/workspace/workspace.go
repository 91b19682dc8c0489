// Package workspace holds the state behind one editor page and implements
// its actions: run, change language, save, load and clear snippets.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/editor"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/runner"
	"github.com/gsarma/codepad/internal/snippet"
)

var (
	ErrBusy            = errors.New("a run is already in progress")
	ErrUnknownLanguage = errors.New("unknown language")
	ErrSnippetNotFound = errors.New("snippet not found")
)

const (
	// SavedNotice is shown after a successful save.
	SavedNotice = "💾 Code saved successfully!"
	// EmptySnippetsMessage is shown by the picker when nothing is saved.
	EmptySnippetsMessage = "No saved code found."

	DefaultNoticeDuration = 2500 * time.Millisecond
)

// Config wires a Workspace. Provider and Snippets are required.
type Config struct {
	Provider       code.Provider
	Snippets       *snippet.Manager
	Logger         runner.Logger
	Reports        runner.ReportPublisher
	FormatDelay    time.Duration
	NoticeDuration time.Duration
}

// State is a snapshot of everything the page renders.
type State struct {
	Language     language.Profile `json:"language"`
	Source       string           `json:"source"`
	Mode         string           `json:"mode"`
	Stdin        string           `json:"stdin"`
	Output       string           `json:"output"`
	Busy         bool             `json:"busy"`
	Highlights   []int            `json:"highlights"`
	RevealedLine int              `json:"revealed_line,omitempty"`
	Notice       string           `json:"notice,omitempty"`
	Snippets     int              `json:"snippets"`
}

// Picker is the content of the saved-snippets dialog.
type Picker struct {
	Snippets     []snippet.Snippet `json:"snippets"`
	EmptyMessage string            `json:"empty_message,omitempty"`
}

type Workspace struct {
	buf            *editor.Buffer
	orch           *runner.Orchestrator
	snippets       *snippet.Manager
	formatDelay    time.Duration
	noticeDuration time.Duration

	mu          sync.Mutex
	profile     language.Profile
	stdin       string
	running     bool
	notice      string
	noticeTimer *time.Timer
}

// New starts a workspace on the default language with its sample loaded.
func New(cfg Config) *Workspace {
	profile := language.Default()
	buf := editor.NewBuffer(profile.Sample, profile.Mode)

	formatDelay := cfg.FormatDelay
	if formatDelay <= 0 {
		formatDelay = editor.DefaultFormatDelay
	}
	noticeDuration := cfg.NoticeDuration
	if noticeDuration <= 0 {
		noticeDuration = DefaultNoticeDuration
	}

	w := &Workspace{
		buf: buf,
		orch: runner.New(runner.Config{
			Provider: cfg.Provider,
			Editor:   buf,
			Logger:   cfg.Logger,
			Reports:  cfg.Reports,
		}),
		snippets:       cfg.Snippets,
		formatDelay:    formatDelay,
		noticeDuration: noticeDuration,
		profile:        profile,
	}
	buf.ScheduleFormat(formatDelay)
	return w
}

// Editor exposes the underlying editor buffer.
func (w *Workspace) Editor() *editor.Buffer {
	return w.buf
}

func (w *Workspace) SetSource(text string) {
	w.buf.SetText(text)
}

func (w *Workspace) SetStdin(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stdin = text
}

// ChangeLanguage switches to the profile with the given id and replaces the
// source with its sample. Unsaved edits are discarded.
func (w *Workspace) ChangeLanguage(id int) error {
	p, ok := language.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLanguage, id)
	}
	w.mu.Lock()
	w.profile = p
	w.mu.Unlock()

	w.buf.SetText(p.Sample)
	w.buf.SetMode(p.Mode)
	w.buf.ScheduleFormat(w.formatDelay)
	return nil
}

// Import replaces the source with a file's contents and switches to the
// detected language. The sample is not loaded.
func (w *Workspace) Import(filename, source string) (language.Profile, error) {
	p, err := language.Detect(filename, source)
	if err != nil {
		return language.Profile{}, err
	}
	w.mu.Lock()
	w.profile = p
	w.mu.Unlock()

	w.buf.SetText(source)
	w.buf.SetMode(p.Mode)
	return p, nil
}

// Run executes the current source. Only one run may be outstanding per
// workspace; a second call while one is pending returns ErrBusy.
func (w *Workspace) Run(ctx context.Context) (runner.Display, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return runner.Display{}, ErrBusy
	}
	w.running = true
	profile, stdin := w.profile, w.stdin
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	return w.orch.Run(ctx, w.buf.Text(), profile, stdin), nil
}

// Save stores the current source under name. A blank name abandons the
// save and reports false.
func (w *Workspace) Save(ctx context.Context, name string) (bool, error) {
	w.mu.Lock()
	profile := w.profile
	w.mu.Unlock()

	saved, err := w.snippets.Save(ctx, name, w.buf.Text(), profile)
	if err != nil || !saved {
		return saved, err
	}
	w.showNotice(SavedNotice)
	return true, nil
}

// Snippets returns the picker contents.
func (w *Workspace) Snippets() Picker {
	list := w.snippets.List()
	if len(list) == 0 {
		return Picker{Snippets: list, EmptyMessage: EmptySnippetsMessage}
	}
	return Picker{Snippets: list}
}

// Load replaces the source and language with the snippet at index.
func (w *Workspace) Load(index int) (snippet.Snippet, error) {
	s, ok := w.snippets.Get(index)
	if !ok {
		return snippet.Snippet{}, fmt.Errorf("%w: %d", ErrSnippetNotFound, index)
	}
	profile := s.Language
	if p, ok := language.Lookup(s.Language.ID); ok {
		profile = p
	}
	w.mu.Lock()
	w.profile = profile
	w.mu.Unlock()

	w.buf.SetText(s.Code)
	w.buf.SetMode(profile.Mode)
	return s, nil
}

// Clear erases every saved snippet.
func (w *Workspace) Clear(ctx context.Context) error {
	return w.snippets.Clear(ctx)
}

// State returns a snapshot for rendering.
func (w *Workspace) State() State {
	w.mu.Lock()
	profile, stdin, notice := w.profile, w.stdin, w.notice
	w.mu.Unlock()

	return State{
		Language:     profile,
		Source:       w.buf.Text(),
		Mode:         w.buf.Mode(),
		Stdin:        stdin,
		Output:       w.orch.Output(),
		Busy:         w.orch.Busy(),
		Highlights:   w.buf.Highlights(),
		RevealedLine: w.buf.RevealedLine(),
		Notice:       notice,
		Snippets:     len(w.snippets.List()),
	}
}

func (w *Workspace) showNotice(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.noticeTimer != nil {
		w.noticeTimer.Stop()
	}
	w.notice = msg
	var t *time.Timer
	t = time.AfterFunc(w.noticeDuration, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.noticeTimer == t {
			w.notice = ""
			w.noticeTimer = nil
		}
	})
	w.noticeTimer = t
}
