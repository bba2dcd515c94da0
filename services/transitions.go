package services

import "github.com/puneetkushwaha/Mom-sKitchen-Backend/models"

// TransitionPolicy decides which status changes each role may make.
type TransitionPolicy struct {
	// Customer lists the targets a customer may move an order to from a given status.
	Customer map[models.OrderStatus][]models.OrderStatus
	// Admin restricts admin moves. A nil map allows every move.
	Admin map[models.OrderStatus][]models.OrderStatus
}

// DefaultTransitionPolicy lets customers cancel pending orders and leaves
// admins free to set any status, so staff can correct mistakes.
func DefaultTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{
		Customer: map[models.OrderStatus][]models.OrderStatus{
			models.OrderStatusPending: {models.OrderStatusCancelled},
		},
	}
}

// ForwardOnlyAdminTransitions is the stricter admin table.
func ForwardOnlyAdminTransitions() map[models.OrderStatus][]models.OrderStatus {
	return map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusPending:         {models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusCancelled},
		models.OrderStatusConfirmed:       {models.OrderStatusPreparing, models.OrderStatusPacked, models.OrderStatusCancelled},
		models.OrderStatusPreparing:       {models.OrderStatusPacked, models.OrderStatusCancelled},
		models.OrderStatusPacked:          {models.OrderStatusHandedToCourier, models.OrderStatusDelivered},
		models.OrderStatusHandedToCourier: {models.OrderStatusDelivered},
	}
}

// Allows reports whether role may move an order from one status to another.
func (p TransitionPolicy) Allows(role models.Role, from, to models.OrderStatus) bool {
	table := p.Customer
	if role == models.RoleAdmin {
		if p.Admin == nil {
			return true
		}
		table = p.Admin
	}
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
