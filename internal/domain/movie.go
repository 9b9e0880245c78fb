package domain

import "time"

// Movie represents a movie in the catalog
type Movie struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	AgeRestriction int       `json:"ageRestriction"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Session represents a screening of a movie in a room at a date and time slot
type Session struct {
	ID         string    `json:"id"`
	MovieID    string    `json:"movieId"`
	Date       time.Time `json:"date"`
	TimeSlot   string    `json:"timeSlot"`
	RoomNumber int       `json:"roomNumber"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
