package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/repository"
)

// CustomerTracker keeps per-customer order aggregates.
type CustomerTracker struct {
	users repository.UserRepository
	now   func() time.Time
}

func NewCustomerTracker(users repository.UserRepository) *CustomerTracker {
	return &CustomerTracker{users: users, now: time.Now}
}

// RecordOrder adds one order and its payable amount to the customer's totals.
// Calling it twice for the same order counts the order twice.
func (t *CustomerTracker) RecordOrder(ctx context.Context, userID uuid.UUID, payable float64) error {
	return t.users.IncrementOrderStats(ctx, userID, payable, t.now())
}
