package enums

import "fmt"

// PaymentMethod is the settlement choice captured on a service request.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodTransfer,
}

func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label returns the Korean display value stored in detail rows.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCash:
		return "현금"
	case PaymentMethodCard:
		return "카드"
	case PaymentMethodTransfer:
		return "계좌이체"
	default:
		return string(p)
	}
}

// ParsePaymentMethod converts raw strings into PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
