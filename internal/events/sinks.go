package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-keypad/internal/audit"
)

// LogSink writes the human-readable activity lines.
type LogSink struct {
	logger Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger Logger) *LogSink {
	if logger == nil {
		logger = noopLogger{}
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, e Event) error {
	switch {
	case e.Kind == KindDoorbell:
		s.logger.Info("Doorbell rang", "event_id", e.ID)
	case e.IsAccepted():
		s.logger.Info(e.Owner+" entered", "event_id", e.ID, "owner_index", e.OwnerIndex)
	default:
		s.logger.Info("Wrong attempt", "event_id", e.ID)
	}
	s.logger.Info("attempt totals",
		"accepted", e.Accepted,
		"rejected", e.Rejected,
		"doorbell", e.Doorbell,
	)
	return nil
}

// Journal is the audit store the JournalSink appends to.
type Journal interface {
	Create(ctx context.Context, e *audit.AccessEvent) error
}

// JournalSink appends every event to the SQLite access journal.
type JournalSink struct {
	journal Journal
}

// NewJournalSink returns a sink writing to journal.
func NewJournalSink(journal Journal) *JournalSink {
	return &JournalSink{journal: journal}
}

func (s *JournalSink) Name() string { return "journal" }

func (s *JournalSink) Deliver(ctx context.Context, e Event) error {
	row := &audit.AccessEvent{
		ID:            e.ID,
		SiteID:        e.SiteID,
		Kind:          string(e.Kind),
		Outcome:       e.Outcome,
		Owner:         e.Owner,
		OwnerIndex:    e.OwnerIndex,
		AcceptedTotal: e.Accepted,
		RejectedTotal: e.Rejected,
		DoorbellTotal: e.Doorbell,
		CreatedAt:     e.Time,
	}
	if err := s.journal.Create(ctx, row); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}

// Publisher is the MQTT client surface used by MQTTSink.
type Publisher interface {
	PublishEvent(kind string, payload []byte) error
}

// MQTTSink publishes each event as JSON on the site's event topic.
type MQTTSink struct {
	pub Publisher
}

// NewMQTTSink returns a sink publishing through pub.
func NewMQTTSink(pub Publisher) *MQTTSink {
	return &MQTTSink{pub: pub}
}

func (s *MQTTSink) Name() string { return "mqtt" }

func (s *MQTTSink) Deliver(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return s.pub.PublishEvent(string(e.Kind), payload)
}

// PointWriter is the InfluxDB client surface used by InfluxSink.
type PointWriter interface {
	WriteAccessAttempt(outcome, owner string, accepted, rejected uint64, at time.Time)
	WriteDoorbellRing(total uint64, at time.Time)
}

// InfluxSink writes one point per event. Writes are buffered by the
// client, so Deliver never fails.
type InfluxSink struct {
	w PointWriter
}

// NewInfluxSink returns a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

func (s *InfluxSink) Name() string { return "influxdb" }

func (s *InfluxSink) Deliver(_ context.Context, e Event) error {
	if e.Kind == KindDoorbell {
		s.w.WriteDoorbellRing(e.Doorbell, e.Time)
		return nil
	}
	s.w.WriteAccessAttempt(e.Outcome, e.Owner, e.Accepted, e.Rejected, e.Time)
	return nil
}
