package enums

import "fmt"

// NotificationType labels the durable notification records the engine appends.
type NotificationType string

const (
	NotificationOrderPlacedCustomer   NotificationType = "order_placed_customer"
	NotificationOrderPlacedRestaurant NotificationType = "order_placed_restaurant"
	NotificationOrderStatusChanged    NotificationType = "order_status_changed"
	NotificationOrderAssignedDelivery NotificationType = "order_assigned_delivery"
	NotificationComplaintResolved     NotificationType = "complaint_resolved"
)

var validNotificationTypes = []NotificationType{
	NotificationOrderPlacedCustomer,
	NotificationOrderPlacedRestaurant,
	NotificationOrderStatusChanged,
	NotificationOrderAssignedDelivery,
	NotificationComplaintResolved,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
