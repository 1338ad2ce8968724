package enums

import "fmt"

// PickupOption captures how the customer takes the order.
type PickupOption string

const (
	PickupOptionPickup PickupOption = "pickup"
	PickupOptionDineIn PickupOption = "dine-in"
)

var validPickupOptions = []PickupOption{
	PickupOptionPickup,
	PickupOptionDineIn,
}

// String implements fmt.Stringer.
func (p PickupOption) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PickupOption.
func (p PickupOption) IsValid() bool {
	for _, candidate := range validPickupOptions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePickupOption converts raw input into a PickupOption.
func ParsePickupOption(value string) (PickupOption, error) {
	for _, candidate := range validPickupOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup option %q", value)
}
