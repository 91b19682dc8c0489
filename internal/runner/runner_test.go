package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/runner"
	"github.com/gsarma/codepad/internal/worker"
)

type stubProvider struct {
	executeFn func(ctx context.Context, req code.Request) (*code.Submission, error)
}

func (s *stubProvider) Execute(ctx context.Context, req code.Request) (*code.Submission, error) {
	return s.executeFn(ctx, req)
}

// recordingEditor records every call the orchestrator makes.
type recordingEditor struct {
	mu    sync.Mutex
	calls []string
	lines []int
}

func (e *recordingEditor) ClearHighlights() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "clear")
	e.lines = nil
}
func (e *recordingEditor) RevealLine(line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "reveal")
}
func (e *recordingEditor) HighlightLine(line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, "highlight")
	e.lines = []int{line}
}

type recordingPublisher struct {
	reports []runner.Report
}

func (p *recordingPublisher) PublishRunReport(_ context.Context, r runner.Report) error {
	p.reports = append(p.reports, r)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// countingLogger counts warnings.
type countingLogger struct {
	nopLogger
	warns int
}

func (l *countingLogger) Warn(string, ...any) { l.warns++ }

func str(s string) *string { return &s }

func respond(sub *code.Submission) *stubProvider {
	return &stubProvider{executeFn: func(context.Context, code.Request) (*code.Submission, error) {
		return sub, nil
	}}
}

func python() language.Profile {
	p, _ := language.Lookup(71)
	return p
}

func TestRun_BuildsRequestFromInputs(t *testing.T) {
	var got code.Request
	p := &stubProvider{executeFn: func(_ context.Context, req code.Request) (*code.Submission, error) {
		got = req
		return &code.Submission{Stdout: str("ok")}, nil
	}}
	o := runner.New(runner.Config{Provider: p, Logger: nopLogger{}})
	o.Run(context.Background(), "print(1)", python(), "in")

	if got.SourceCode != "print(1)" || got.LanguageID != 71 || got.Stdin != "in" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestRun_StdoutWinsOverErrorChannels(t *testing.T) {
	ed := &recordingEditor{}
	o := runner.New(runner.Config{
		Provider: respond(&code.Submission{Stdout: str("42\n"), Stderr: str("warning at line 3"), CompileOutput: str("line 9")}),
		Editor:   ed,
		Logger:   nopLogger{},
	})
	d := o.Run(context.Background(), "", python(), "")

	if d.Output != "42\n" || d.Channel != runner.ChannelStdout {
		t.Errorf("expected stdout, got %q (%s)", d.Output, d.Channel)
	}
	if d.Highlight != nil {
		t.Error("stdout output must not derive a highlight")
	}
	if len(ed.lines) != 0 {
		t.Errorf("editor should have no highlight, got %v", ed.lines)
	}
}

func TestRun_StderrHighlightsLine(t *testing.T) {
	ed := &recordingEditor{}
	o := runner.New(runner.Config{
		Provider: respond(&code.Submission{Stdout: str(""), Stderr: str("Error at line 42: syntax error")}),
		Editor:   ed,
		Logger:   nopLogger{},
	})
	d := o.Run(context.Background(), "", python(), "")

	if d.Output != "Error at line 42: syntax error" || d.Channel != runner.ChannelStderr {
		t.Errorf("expected stderr, got %q (%s)", d.Output, d.Channel)
	}
	if d.Highlight == nil || d.Highlight.Line != 42 {
		t.Fatalf("expected highlight on line 42, got %+v", d.Highlight)
	}
	want := []string{"clear", "reveal", "highlight"}
	if len(ed.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, ed.calls)
	}
	for i := range want {
		if ed.calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], ed.calls[i])
		}
	}
}

func TestRun_CompileOutputHighlights(t *testing.T) {
	ed := &recordingEditor{}
	o := runner.New(runner.Config{
		Provider: respond(&code.Submission{CompileOutput: str("Main.java, Line 7: ';' expected")}),
		Editor:   ed,
		Logger:   nopLogger{},
	})
	d := o.Run(context.Background(), "", python(), "")

	if d.Channel != runner.ChannelCompileOutput {
		t.Errorf("expected compile_output, got %s", d.Channel)
	}
	if d.Highlight == nil || d.Highlight.Line != 7 {
		t.Errorf("expected case-insensitive match on line 7, got %+v", d.Highlight)
	}
}

func TestRun_ErrorWithoutLineIsSilent(t *testing.T) {
	ed := &recordingEditor{}
	o := runner.New(runner.Config{
		Provider: respond(&code.Submission{Stderr: str("unexpected token")}),
		Editor:   ed,
		Logger:   nopLogger{},
	})
	d := o.Run(context.Background(), "", python(), "")

	if d.Output != "unexpected token" {
		t.Errorf("unexpected output %q", d.Output)
	}
	if d.Highlight != nil || len(ed.lines) != 0 {
		t.Error("expected no highlight")
	}
}

func TestRun_NoOutput(t *testing.T) {
	o := runner.New(runner.Config{Provider: respond(&code.Submission{}), Logger: nopLogger{}})
	d := o.Run(context.Background(), "", python(), "")
	if d.Output != runner.NoOutput || d.Channel != runner.ChannelNone {
		t.Errorf("expected %q, got %q (%s)", runner.NoOutput, d.Output, d.Channel)
	}
	if o.Output() != "No output" {
		t.Errorf("displayed output should be %q, got %q", "No output", o.Output())
	}
}

func TestRun_TransportFailure(t *testing.T) {
	ed := &recordingEditor{}
	pub := &recordingPublisher{}
	p := &stubProvider{executeFn: func(context.Context, code.Request) (*code.Submission, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	o := runner.New(runner.Config{Provider: p, Editor: ed, Logger: nopLogger{}, Reports: pub})
	d := o.Run(context.Background(), "", python(), "")

	if d.Output != "⚠️ Error executing code." || d.Channel != runner.ChannelFailure {
		t.Errorf("unexpected failure display %+v", d)
	}
	if d.Highlight != nil {
		t.Error("failure must not derive a highlight")
	}
	if o.Busy() {
		t.Error("busy must be cleared after a failed run")
	}
	if len(pub.reports) != 1 || pub.reports[0].Error == "" {
		t.Errorf("expected one failure report, got %+v", pub.reports)
	}
}

func TestRun_ClearsPreviousHighlightBeforeSubmitting(t *testing.T) {
	ed := &recordingEditor{}
	first := true
	p := &stubProvider{executeFn: func(context.Context, code.Request) (*code.Submission, error) {
		if first {
			first = false
			return &code.Submission{Stderr: str("line 3")}, nil
		}
		if len(ed.lines) != 0 {
			t.Error("highlight should be cleared before the second request is sent")
		}
		return &code.Submission{Stdout: str("fixed")}, nil
	}}
	o := runner.New(runner.Config{Provider: p, Editor: ed, Logger: nopLogger{}})
	o.Run(context.Background(), "", python(), "")
	o.Run(context.Background(), "", python(), "")

	if len(ed.lines) != 0 {
		t.Errorf("expected no highlight after a clean run, got %v", ed.lines)
	}
}

func TestRun_BusyDuringCall(t *testing.T) {
	var o *runner.Orchestrator
	p := &stubProvider{executeFn: func(context.Context, code.Request) (*code.Submission, error) {
		if !o.Busy() {
			t.Error("expected busy while the provider call is in flight")
		}
		if o.Output() != "" {
			t.Error("expected output cleared while running")
		}
		return &code.Submission{Stdout: str("x")}, nil
	}}
	o = runner.New(runner.Config{Provider: p, Logger: nopLogger{}})
	o.Run(context.Background(), "", python(), "")
	if o.Busy() {
		t.Error("expected idle after run")
	}
}

func TestRun_SupersededResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	p := &stubProvider{executeFn: func(context.Context, code.Request) (*code.Submission, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return &code.Submission{Stderr: str("old failure on line 5")}, nil
		}
		return &code.Submission{Stdout: str("new")}, nil
	}}
	ed := &recordingEditor{}
	pub := &recordingPublisher{}
	o := runner.New(runner.Config{Provider: p, Editor: ed, Logger: nopLogger{}, Reports: pub})

	done := make(chan runner.Display)
	go func() { done <- o.Run(context.Background(), "", python(), "") }()
	<-entered

	second := o.Run(context.Background(), "", python(), "")
	close(release)
	first := <-done

	if second.Stale || second.Output != "new" {
		t.Errorf("unexpected second display %+v", second)
	}
	if !first.Stale {
		t.Error("first run should be reported stale")
	}
	if o.Output() != "new" {
		t.Errorf("stale result overwrote output: %q", o.Output())
	}
	if len(ed.lines) != 0 {
		t.Errorf("stale result applied a highlight: %v", ed.lines)
	}
	if o.Busy() {
		t.Error("expected idle once both runs finished")
	}
	if len(pub.reports) != 1 {
		t.Errorf("expected only the latest run to be reported, got %d", len(pub.reports))
	}
}

func TestRun_StaleCompletionDoesNotClearBusy(t *testing.T) {
	entered := []chan struct{}{make(chan struct{}), make(chan struct{})}
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}
	calls := 0
	var mu sync.Mutex
	p := &stubProvider{executeFn: func(context.Context, code.Request) (*code.Submission, error) {
		mu.Lock()
		n := calls
		calls++
		mu.Unlock()
		close(entered[n])
		<-release[n]
		return &code.Submission{Stdout: str("x")}, nil
	}}
	o := runner.New(runner.Config{Provider: p, Logger: nopLogger{}})

	firstDone := make(chan runner.Display)
	go func() { firstDone <- o.Run(context.Background(), "", python(), "") }()
	<-entered[0]
	secondDone := make(chan runner.Display)
	go func() { secondDone <- o.Run(context.Background(), "", python(), "") }()
	<-entered[1]

	close(release[0])
	if first := <-firstDone; !first.Stale {
		t.Error("first run should be stale")
	}
	if !o.Busy() {
		t.Error("stale completion cleared busy while a newer run is outstanding")
	}

	close(release[1])
	<-secondDone
	if o.Busy() {
		t.Error("expected idle after the latest run finished")
	}
}

func TestRun_DroppedReportIsLoggedOnce(t *testing.T) {
	// Dispatcher is never started, so its single slot fills on the first run.
	d := worker.New(&recordingPublisher{}, 1, worker.Options{QueueSize: 1})
	logger := &countingLogger{}
	o := runner.New(runner.Config{Provider: respond(&code.Submission{Stdout: str("ok")}), Logger: logger, Reports: d})

	o.Run(context.Background(), "print(1)", python(), "")
	if logger.warns != 0 {
		t.Fatalf("expected no warning for a queued report, got %d", logger.warns)
	}
	o.Run(context.Background(), "print(1)", python(), "")
	if logger.warns != 1 {
		t.Errorf("expected exactly one warning for the dropped report, got %d", logger.warns)
	}
}
