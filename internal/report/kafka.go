// Package report ships run reports to Kafka.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/gsarma/codepad/internal/runner"
)

var _ runner.ReportPublisher = (*Publisher)(nil)

// PublisherConfig configures the Kafka-based run report publisher.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// Publisher publishes run reports to Kafka.
type Publisher struct {
	writer messageWriter
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// envelope is the wire form of a report. Durations are milliseconds.
type envelope struct {
	RunID      string    `json:"run_id"`
	LanguageID int       `json:"language_id"`
	Language   string    `json:"language"`
	Channel    string    `json:"channel"`
	Output     string    `json:"output"`
	Line       int       `json:"line,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewPublisher constructs a Publisher using the supplied configuration.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker must be provided")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic must be provided")
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
	}

	return newPublisher(writer), nil
}

func newPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// PublishRunReport serializes the report and writes it keyed by run id.
func (p *Publisher) PublishRunReport(ctx context.Context, r runner.Report) error {
	if p.writer == nil {
		return fmt.Errorf("publisher is not initialized")
	}

	payload, err := json.Marshal(envelope{
		RunID:      r.RunID.String(),
		LanguageID: r.LanguageID,
		Language:   r.Language,
		Channel:    string(r.Channel),
		Output:     r.Output,
		Line:       r.Line,
		DurationMs: r.Duration.Milliseconds(),
		Error:      r.Error,
		Timestamp:  r.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(r.RunID.String()),
		Value: payload,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close releases the underlying Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
