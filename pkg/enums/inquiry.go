package enums

import "fmt"

// InquiryStatus tracks the support ticket lifecycle.
type InquiryStatus string

const (
	InquiryStatusReceived   InquiryStatus = "received"
	InquiryStatusInProgress InquiryStatus = "in_progress"
	InquiryStatusDone       InquiryStatus = "done"
	InquiryStatusHeld       InquiryStatus = "held"
)

var validInquiryStatuses = []InquiryStatus{
	InquiryStatusReceived,
	InquiryStatusInProgress,
	InquiryStatusDone,
	InquiryStatusHeld,
}

func (s InquiryStatus) IsValid() bool {
	for _, candidate := range validInquiryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInquiryStatus converts raw strings into InquiryStatus.
func ParseInquiryStatus(value string) (InquiryStatus, error) {
	for _, candidate := range validInquiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry status %q", value)
}

// InquiryCategory buckets inquiries for admin triage.
type InquiryCategory string

const (
	InquiryCategoryService InquiryCategory = "service"
	InquiryCategoryPayment InquiryCategory = "payment"
	InquiryCategoryAccount InquiryCategory = "account"
	InquiryCategoryEtc     InquiryCategory = "etc"
)

var validInquiryCategories = []InquiryCategory{
	InquiryCategoryService,
	InquiryCategoryPayment,
	InquiryCategoryAccount,
	InquiryCategoryEtc,
}

func (c InquiryCategory) IsValid() bool {
	for _, candidate := range validInquiryCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseInquiryCategory converts raw strings into InquiryCategory.
func ParseInquiryCategory(value string) (InquiryCategory, error) {
	for _, candidate := range validInquiryCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry category %q", value)
}

// InquiryPriority orders the admin work queue.
type InquiryPriority string

const (
	InquiryPriorityLow    InquiryPriority = "low"
	InquiryPriorityNormal InquiryPriority = "normal"
	InquiryPriorityHigh   InquiryPriority = "high"
	InquiryPriorityUrgent InquiryPriority = "urgent"
)

var validInquiryPriorities = []InquiryPriority{
	InquiryPriorityLow,
	InquiryPriorityNormal,
	InquiryPriorityHigh,
	InquiryPriorityUrgent,
}

func (p InquiryPriority) IsValid() bool {
	for _, candidate := range validInquiryPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseInquiryPriority converts raw strings into InquiryPriority.
func ParseInquiryPriority(value string) (InquiryPriority, error) {
	for _, candidate := range validInquiryPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry priority %q", value)
}
