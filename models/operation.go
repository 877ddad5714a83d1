package models

// Operation names a logical gateway operation backed by an ordered provider chain
type Operation string

const (
	OperationTranslate Operation = "translate"
	OperationGeocode   Operation = "geocode"
	OperationPOI       Operation = "poi"
	OperationWeather   Operation = "weather"
)

// Operations lists every supported operation in a stable order
func Operations() []Operation {
	return []Operation{OperationTranslate, OperationGeocode, OperationPOI, OperationWeather}
}

// ParseOperation resolves an operation name. The second result is false for unknown names.
func ParseOperation(name string) (Operation, bool) {
	for _, op := range Operations() {
		if string(op) == name {
			return op, true
		}
	}
	return "", false
}

// String implements fmt.Stringer
func (o Operation) String() string {
	return string(o)
}
