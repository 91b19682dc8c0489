package runner

import (
	"regexp"
	"strconv"

	"github.com/gsarma/codepad/internal/code"
)

const (
	// NoOutput is displayed when the runner returned no text on any channel.
	NoOutput = "No output"
	// FailureOutput is displayed when the runner could not be reached.
	FailureOutput = "⚠️ Error executing code."
)

// Channel names the result channel a displayed output came from.
type Channel string

const (
	ChannelStdout        Channel = "stdout"
	ChannelStderr        Channel = "stderr"
	ChannelCompileOutput Channel = "compile_output"
	ChannelNone          Channel = "none"
	ChannelFailure       Channel = "failure"
)

// IsError reports whether the channel carries diagnostics.
func (c Channel) IsError() bool {
	return c == ChannelStderr || c == ChannelCompileOutput
}

// Highlight is the editor line an error message points at.
type Highlight struct {
	Line int `json:"line"`
}

// SelectOutput picks the text to display: stdout wins whenever it is
// non-empty, then stderr, then compile output.
func SelectOutput(sub *code.Submission) (string, Channel) {
	if sub == nil {
		return NoOutput, ChannelNone
	}
	switch {
	case nonEmpty(sub.Stdout):
		return *sub.Stdout, ChannelStdout
	case nonEmpty(sub.Stderr):
		return *sub.Stderr, ChannelStderr
	case nonEmpty(sub.CompileOutput):
		return *sub.CompileOutput, ChannelCompileOutput
	default:
		return NoOutput, ChannelNone
	}
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

var lineRe = regexp.MustCompile(`(?i)line (\d+)`)

// ParseErrorLine finds the first "line N" reference in diagnostic text.
// Compiler output formats differ per language, so a miss is normal.
func ParseErrorLine(text string) (Highlight, bool) {
	m := lineRe.FindStringSubmatch(text)
	if m == nil {
		return Highlight{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return Highlight{}, false
	}
	return Highlight{Line: n}, true
}
