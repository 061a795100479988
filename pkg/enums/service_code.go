package enums

import "fmt"

// ServiceCode identifies a catalog offering.
type ServiceCode string

const (
	ServiceCodeBurner   ServiceCode = "burner"
	ServiceCodeValve    ServiceCode = "valve"
	ServiceCodeAlarm    ServiceCode = "alarm"
	ServiceCodePipe     ServiceCode = "pipe"
	ServiceCodeLeak     ServiceCode = "leak"
	ServiceCodeQuote    ServiceCode = "quote"
	ServiceCodeContract ServiceCode = "contract"
)

var validServiceCodes = []ServiceCode{
	ServiceCodeBurner,
	ServiceCodeValve,
	ServiceCodeAlarm,
	ServiceCodePipe,
	ServiceCodeLeak,
	ServiceCodeQuote,
	ServiceCodeContract,
}

func (c ServiceCode) IsValid() bool {
	for _, candidate := range validServiceCodes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseServiceCode converts raw strings into ServiceCode.
func ParseServiceCode(value string) (ServiceCode, error) {
	for _, candidate := range validServiceCodes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service code %q", value)
}
