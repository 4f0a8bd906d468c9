package orders

import (
	"github.com/feastline/feastline-backend/pkg/enums"
)

type transition struct {
	From enums.OrderStatus
	To   enums.OrderStatus
}

// transitionRoles is the complete state machine. A transition absent from
// this table is invalid for everyone, admins included.
var transitionRoles = map[transition]enums.UserRole{
	{enums.OrderStatusPlaced, enums.OrderStatusPreparing}:         enums.RoleRestaurantOwner,
	{enums.OrderStatusPreparing, enums.OrderStatusOutForDelivery}: enums.RoleDeliveryPartner,
	{enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered}: enums.RoleDeliveryPartner,
	{enums.OrderStatusPlaced, enums.OrderStatusCancelled}:         enums.RoleCustomer,
}

// transitionAllowed reports whether the move exists and which role may make it.
func transitionAllowed(from, to enums.OrderStatus) (enums.UserRole, bool) {
	role, ok := transitionRoles[transition{From: from, To: to}]
	return role, ok
}
