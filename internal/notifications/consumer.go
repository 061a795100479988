package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	"github.com/gaslink/gaslink-backend/pkg/logger"
	"github.com/gaslink/gaslink-backend/pkg/outbox"
	"github.com/gaslink/gaslink-backend/pkg/outbox/idempotency"
	"github.com/gaslink/gaslink-backend/pkg/outbox/payloads"
)

const notificationConsumer = "notifications-worker"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and turns request lifecycle transitions and
// inquiry responses into in-app notification rows for the owning user.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	if !isHandledEvent(eventType) {
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handleEvent(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, notificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func isHandledEvent(eventType enums.OutboxEventType) bool {
	switch eventType {
	case enums.EventRequestCreated,
		enums.EventRequestStarted,
		enums.EventRequestCompleted,
		enums.EventRequestCanceled,
		enums.EventInquiryResponded:
		return true
	default:
		return false
	}
}

func (c *Consumer) handleEvent(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventRequestCreated:
		var payload payloads.RequestCreatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse request created payload: %w", err)
		}
		return c.notifyRequestCreated(ctx, payload, logCtx)
	case enums.EventRequestStarted, enums.EventRequestCompleted, enums.EventRequestCanceled:
		var payload payloads.RequestStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse request status payload: %w", err)
		}
		return c.notifyRequestStatus(ctx, payload, logCtx)
	case enums.EventInquiryResponded:
		var payload payloads.InquiryRespondedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse inquiry responded payload: %w", err)
		}
		return c.notifyInquiryResponse(ctx, payload, logCtx)
	default:
		return nil
	}
}

func (c *Consumer) notifyRequestCreated(ctx context.Context, payload payloads.RequestCreatedEvent, logCtx context.Context) error {
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id missing")
	}
	notification := &models.Notification{
		UserID:  payload.UserID,
		Type:    enums.NotificationTypeRequestUpdate,
		Title:   "서비스 신청 완료",
		Message: fmt.Sprintf("%s 서비스가 접수되었습니다.", payload.ServiceName),
		Link:    stringPtr(fmt.Sprintf("/requests/%s", payload.RequestID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "user notified of request creation")
	return nil
}

func (c *Consumer) notifyRequestStatus(ctx context.Context, payload payloads.RequestStatusChangedEvent, logCtx context.Context) error {
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id missing")
	}

	var title, message string
	switch payload.Status {
	case enums.RequestStatusInProgress:
		title = "작업 시작"
		message = fmt.Sprintf("%s 서비스 작업이 시작되었습니다.", payload.ServiceName)
	case enums.RequestStatusCompleted:
		title = "작업 완료"
		message = fmt.Sprintf("%s 서비스 작업이 완료되었습니다.", payload.ServiceName)
	case enums.RequestStatusCanceled:
		title = "신청 취소"
		message = fmt.Sprintf("%s 서비스 신청이 취소되었습니다.", payload.ServiceName)
	default:
		c.logg.Info(logCtx, "status not handled")
		return nil
	}

	notification := &models.Notification{
		UserID:  payload.UserID,
		Type:    enums.NotificationTypeRequestUpdate,
		Title:   title,
		Message: message,
		Link:    stringPtr(fmt.Sprintf("/requests/%s", payload.RequestID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "user notified of request status change")
	return nil
}

func (c *Consumer) notifyInquiryResponse(ctx context.Context, payload payloads.InquiryRespondedEvent, logCtx context.Context) error {
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id missing")
	}
	notification := &models.Notification{
		UserID:  payload.UserID,
		Type:    enums.NotificationTypeInquiryResponse,
		Title:   "문의 답변 등록",
		Message: fmt.Sprintf("문의 \"%s\"에 답변이 등록되었습니다.", payload.InquiryTitle),
		Link:    stringPtr(fmt.Sprintf("/inquiries/%s", payload.InquiryID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "user notified of inquiry response")
	return nil
}

func stringPtr(value string) *string {
	return &value
}
