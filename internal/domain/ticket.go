package domain

import "time"

// Ticket binds a user to a session. IsUsed transitions false to true exactly
// once when the ticket is consumed by the watch endpoint and never reverses.
type Ticket struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	SessionID    string    `json:"sessionId"`
	IsUsed       bool      `json:"isUsed"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

// WatchHistoryEntry records a consumed ticket's viewing event. Immutable once
// created.
type WatchHistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	MovieID   string    `json:"movieId"`
	WatchedAt time.Time `json:"watchedAt"`
}
