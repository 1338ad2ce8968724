package enums

import "fmt"

// SessionKind distinguishes the persisted session record types.
type SessionKind string

const (
	SessionKindCustomer SessionKind = "customer"
	SessionKindCart     SessionKind = "cart"
)

var validSessionKinds = []SessionKind{
	SessionKindCustomer,
	SessionKindCart,
}

// String implements fmt.Stringer.
func (s SessionKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionKind.
func (s SessionKind) IsValid() bool {
	for _, candidate := range validSessionKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionKind converts raw input into a SessionKind.
func ParseSessionKind(value string) (SessionKind, error) {
	for _, candidate := range validSessionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session kind %q", value)
}
