package enums

import "fmt"

// OperatorRole represents the permissions level of the terminal operator.
type OperatorRole string

const (
	OperatorRoleAdmin OperatorRole = "admin"
	OperatorRoleStaff OperatorRole = "staff"
)

var validOperatorRoles = []OperatorRole{
	OperatorRoleAdmin,
	OperatorRoleStaff,
}

// String implements fmt.Stringer.
func (o OperatorRole) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OperatorRole.
func (o OperatorRole) IsValid() bool {
	for _, candidate := range validOperatorRoles {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOperatorRole converts raw input into an OperatorRole.
func ParseOperatorRole(value string) (OperatorRole, error) {
	for _, candidate := range validOperatorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operator role %q", value)
}
