package handlers

import "github.com/lemawe69/milky-shaky-backend/internal/models"

// Authorization predicates for order access, kept as pure functions so
// they can be tested without transport.

// CanViewOrder: the owner or any manager may read an order. Payment
// confirmation uses the same rule.
func CanViewOrder(caller *models.User, order *models.Order) bool {
	return caller.IsManager() || order.UserID == caller.ID
}

// CanCancelOrder: owner only. Managers are deliberately not granted a
// cancellation override even though they may view the order.
func CanCancelOrder(caller *models.User, order *models.Order) bool {
	return order.UserID == caller.ID
}
