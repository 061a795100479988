package enums

import "fmt"

// RequestStatus holds the Korean status literals stored on service_requests.
// The stored values predate this service and match what the mobile app renders.
type RequestStatus string

const (
	RequestStatusRequested  RequestStatus = "접수"
	RequestStatusInProgress RequestStatus = "진행중"
	RequestStatusCompleted  RequestStatus = "완료"
	RequestStatusCanceled   RequestStatus = "취소"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusRequested,
	RequestStatusInProgress,
	RequestStatusCompleted,
	RequestStatusCanceled,
}

func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCanceled
}

// ParseRequestStatus converts raw strings into RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
