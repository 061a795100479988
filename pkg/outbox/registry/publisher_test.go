package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/config"
	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	"github.com/gaslink/gaslink-backend/pkg/outbox"
	"github.com/gaslink/gaslink-backend/pkg/outbox/payloads"
)

func newTestRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{EventsTopic: "gl-domain-events"})
	if err != nil {
		t.Fatalf("new event registry: %v", err)
	}
	return reg
}

func encodeEnvelope(t *testing.T, data interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	}
	out, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return out
}

func TestResolveRequestCreated(t *testing.T) {
	reg := newTestRegistry(t)
	requestID := uuid.New()

	event := models.OutboxEvent{
		EventType:     enums.EventRequestCreated,
		AggregateType: enums.AggregateServiceRequest,
		AggregateID:   requestID,
		Payload: encodeEnvelope(t, payloads.RequestCreatedEvent{
			RequestID:   requestID,
			UserID:      uuid.New(),
			ServiceName: "가스레인지 교체",
			Status:      enums.RequestStatusRequested,
		}),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Descriptor.Topic != "gl-domain-events" {
		t.Fatalf("unexpected topic %s", resolved.Descriptor.Topic)
	}
	payload, ok := resolved.Payload.(*payloads.RequestCreatedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.RequestID != requestID {
		t.Fatalf("request id not preserved")
	}
}

func TestResolveUnsupportedEventType(t *testing.T) {
	reg := newTestRegistry(t)
	event := models.OutboxEvent{
		EventType:     "request.unknown",
		AggregateType: enums.AggregateServiceRequest,
		AggregateID:   uuid.New(),
		Payload:       encodeEnvelope(t, payloads.RequestStatusChangedEvent{}),
	}

	_, err := reg.Resolve(event)
	var nonRetryable NonRetryableError
	if !errors.As(err, &nonRetryable) {
		t.Fatalf("expected NonRetryableError, got %v", err)
	}
}

func TestResolveAggregateMismatch(t *testing.T) {
	reg := newTestRegistry(t)
	event := models.OutboxEvent{
		EventType:     enums.EventRequestCanceled,
		AggregateType: enums.AggregateInquiry,
		AggregateID:   uuid.New(),
		Payload:       encodeEnvelope(t, payloads.RequestStatusChangedEvent{}),
	}

	_, err := reg.Resolve(event)
	var nonRetryable NonRetryableError
	if !errors.As(err, &nonRetryable) {
		t.Fatalf("expected NonRetryableError, got %v", err)
	}
}

func TestResolveMissingPayload(t *testing.T) {
	reg := newTestRegistry(t)
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version: 1,
		EventID: uuid.NewString(),
		Data:    json.RawMessage("null"),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	event := models.OutboxEvent{
		EventType:     enums.EventInquiryResponded,
		AggregateType: enums.AggregateInquiry,
		AggregateID:   uuid.New(),
		Payload:       envelope,
	}

	var nonRetryable NonRetryableError
	if _, err := reg.Resolve(event); !errors.As(err, &nonRetryable) {
		t.Fatalf("expected NonRetryableError, got %v", err)
	}
}
