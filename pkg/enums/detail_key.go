package enums

// Reserved request-detail keys. Everything else on a request is an item label.
// The Korean literals are the keys the mobile client has always written.
const (
	DetailKeyVisitDate     = "방문 날짜"
	DetailKeyVisitTime     = "방문 시간"
	DetailKeyPaymentMethod = "결제 방법"
	DetailKeyExtraNote     = "추가 요청사항"
)

var reservedDetailKeys = []string{
	DetailKeyVisitDate,
	DetailKeyVisitTime,
	DetailKeyPaymentMethod,
	DetailKeyExtraNote,
}

// IsReservedDetailKey reports whether key is one of the fixed scheduling or
// payment keys rather than an item label.
func IsReservedDetailKey(key string) bool {
	for _, candidate := range reservedDetailKeys {
		if candidate == key {
			return true
		}
	}
	return false
}

// ReservedDetailKeys returns a copy of the reserved key list in render order.
func ReservedDetailKeys() []string {
	out := make([]string, len(reservedDetailKeys))
	copy(out, reservedDetailKeys)
	return out
}
