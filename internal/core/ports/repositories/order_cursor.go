package repositories

import (
	"time"
)

// OrderCursor marks a position in a user's order listing, newest first.
type OrderCursor struct {
	CreatedAt time.Time
	OrderID   string
}
