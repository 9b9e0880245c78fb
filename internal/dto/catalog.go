package dto

// CreateMovieRequest is the movie creation payload
type CreateMovieRequest struct {
	Name           string `json:"name" binding:"required"`
	AgeRestriction int    `json:"ageRestriction" binding:"gte=0"`
}

// UpdateMovieRequest is the movie update payload
type UpdateMovieRequest struct {
	Name           string `json:"name" binding:"required"`
	AgeRestriction int    `json:"ageRestriction" binding:"gte=0"`
}

// MovieListQuery adds the catalog filters on top of pagination
type MovieListQuery struct {
	Pagination
	Name string `form:"name"`
}

// CreateSessionRequest is the session creation payload. Date uses
// time.RFC3339 via JSON binding of the date field as a string.
type CreateSessionRequest struct {
	Date       string `json:"date" binding:"required"`
	TimeSlot   string `json:"timeSlot" binding:"required"`
	RoomNumber int    `json:"roomNumber" binding:"required,gte=1"`
}

// UpdateSessionRequest is the session update payload
type UpdateSessionRequest struct {
	Date       string `json:"date" binding:"required"`
	TimeSlot   string `json:"timeSlot" binding:"required"`
	RoomNumber int    `json:"roomNumber" binding:"required,gte=1"`
}
