package enums

import "fmt"

// UserRole is the closed set of actor roles recognized by the platform.
type UserRole string

const (
	RoleAdmin           UserRole = "admin"
	RoleRestaurantOwner UserRole = "restaurant_owner"
	RoleCustomer        UserRole = "customer"
	RoleDeliveryPartner UserRole = "delivery_partner"
	RoleCustomerCare    UserRole = "customer_care"
)

var validUserRoles = []UserRole{
	RoleAdmin,
	RoleRestaurantOwner,
	RoleCustomer,
	RoleDeliveryPartner,
	RoleCustomerCare,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
