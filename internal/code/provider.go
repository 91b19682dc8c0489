package code

import (
	"context"
	"errors"
)

// ErrTransport wraps every failure to obtain a result from the runner:
// network errors, non-2xx responses, timeouts and undecodable bodies.
var ErrTransport = errors.New("code execution transport failure")

// Request is the payload of a single execution.
type Request struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

// Submission is the result of a single code execution.
// A nil channel means the runner did not return it.
type Submission struct {
	Token         string  `json:"token,omitempty"`
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Status        string  `json:"status,omitempty"`
	Time          string  `json:"time,omitempty"`
	Memory        int     `json:"memory,omitempty"`
}

// Provider defines the interface each code execution provider must implement.
type Provider interface {
	Execute(ctx context.Context, req Request) (*Submission, error)
}
