package dto

// CreateTicketRequest binds the calling user to a session
type CreateTicketRequest struct {
	SessionID string `json:"sessionId" binding:"required,uuid"`
}
