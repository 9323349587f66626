package scans

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/utils"
)

// ScanEvent is the wire shape on the scan-event topic. End is omitted by
// scanners that only report the scan instant.
type ScanEvent struct {
	Ref        string `json:"ref"`
	EmployeeID int32  `json:"employeeId"`
	RoleID     int32  `json:"roleId"`
	Items      int32  `json:"items"`
	Start      string `json:"start"`
	End        string `json:"end,omitempty"`
}

// WindowRecorder persists ingested windows, ignoring duplicates.
type WindowRecorder interface {
	RecordActivityWindows(ctx context.Context, windows []models.ActivityWindow) (int64, error)
}

// Consumer drains the scan-event topic into the activity ledger. Duplicate
// refs are absorbed by the unique (source, external ref) index, so
// redelivery is safe.
type Consumer struct {
	Reader       *kafka.Reader
	Recorder     WindowRecorder
	Location     *time.Location
	DefaultWidth time.Duration
	Source       string
	Log          *slog.Logger
}

func NewConsumer(brokers []string, topic, group string, recorder WindowRecorder, providerTimezone string, log *slog.Logger) (*Consumer, error) {
	loc, err := time.LoadLocation(providerTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scan source timezone %q: %w", providerTimezone, err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})

	return &Consumer{
		Reader:       reader,
		Recorder:     recorder,
		Location:     loc,
		DefaultWidth: DefaultWindowMinutes * time.Minute,
		Source:       "scan-stream",
		Log:          log.With(slog.String("component", "scan-consumer")),
	}, nil
}

// Run consumes until the context is canceled. A malformed event is logged
// and skipped; it must not stall the partition.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read scan event: %w", err)
		}

		window, err := c.decode(msg.Value)
		if err != nil {
			c.Log.Warn("skipping malformed scan event",
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()))
			continue
		}

		if _, err := c.Recorder.RecordActivityWindows(ctx, []models.ActivityWindow{window}); err != nil {
			return err
		}
	}
}

func (c *Consumer) decode(value []byte) (models.ActivityWindow, error) {
	var event ScanEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return models.ActivityWindow{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if event.Ref == "" {
		return models.ActivityWindow{}, fmt.Errorf("missing ref")
	}
	if event.Items < 0 {
		return models.ActivityWindow{}, fmt.Errorf("item count must be >= 0")
	}

	start, err := utils.ParseTimeIn(event.Start, c.Location)
	if err != nil {
		return models.ActivityWindow{}, fmt.Errorf("invalid start: %w", err)
	}

	end := start.Add(c.DefaultWidth)
	if event.End != "" {
		parsed, err := utils.ParseTimeIn(event.End, c.Location)
		if err != nil {
			return models.ActivityWindow{}, fmt.Errorf("invalid end: %w", err)
		}
		end = *parsed
	}

	return models.ActivityWindow{
		EmployeeID:  event.EmployeeID,
		RoleID:      event.RoleID,
		ItemCount:   event.Items,
		StartAt:     *start,
		EndAt:       end,
		Source:      c.Source,
		ExternalRef: event.Ref,
	}, nil
}

func (c *Consumer) Close() error {
	return c.Reader.Close()
}
