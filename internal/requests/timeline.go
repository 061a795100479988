package requests

import (
	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// Timeline step indexes rendered by the mobile progress list.
const (
	TimelineStepRequested = 0
	TimelineStepWorking   = 1
	TimelineStepCompleted = 2
	TimelineStepCanceled  = 3
	TimelineStepNone      = -1
)

// TimelineStep derives the active progress index from the request's nullable
// transition timestamps. Cancellation wins regardless of which timestamps are
// set; otherwise the highest stamped step is active.
func TimelineStep(req *models.ServiceRequest) int {
	if req == nil {
		return TimelineStepNone
	}
	if req.Status == enums.RequestStatusCanceled {
		return TimelineStepCanceled
	}
	switch {
	case req.CompletedAt != nil:
		return TimelineStepCompleted
	case req.WorkingAt != nil:
		return TimelineStepWorking
	case !req.CreatedAt.IsZero():
		return TimelineStepRequested
	default:
		return TimelineStepNone
	}
}
