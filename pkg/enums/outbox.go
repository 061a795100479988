package enums

// OutboxEventType labels domain events written to the outbox table.
type OutboxEventType string

const (
	EventRequestCreated   OutboxEventType = "request.created"
	EventRequestStarted   OutboxEventType = "request.started"
	EventRequestCompleted OutboxEventType = "request.completed"
	EventRequestCanceled  OutboxEventType = "request.canceled"
	EventInquiryResponded OutboxEventType = "inquiry.responded"
)

// OutboxAggregateType names the row kind an event belongs to.
type OutboxAggregateType string

const (
	AggregateServiceRequest OutboxAggregateType = "service_request"
	AggregateInquiry        OutboxAggregateType = "inquiry"
)

// OutboxStatus tracks publication progress for an outbox row.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)
