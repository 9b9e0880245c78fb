package domain

import "errors"

var (
	// Auth errors
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Catalog errors
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyExists = errors.New("movie already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRoomAlreadyBooked  = errors.New("the room is already booked for this date and time slot")

	// RBAC errors
	ErrRoleNotFound            = errors.New("role not found")
	ErrRoleAlreadyExists       = errors.New("role already exists")
	ErrPermissionNotFound      = errors.New("permission not found")
	ErrPermissionAlreadyExists = errors.New("permission already exists")

	// Ticket errors
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrNoTicketForSession = errors.New("user does not have a ticket for this session")
	ErrTicketAlreadyUsed  = errors.New("ticket has already been used")
	ErrWatchEntryNotFound = errors.New("watch history entry not found")

	// ErrValidation marks request payloads that pass binding but fail a
	// semantic check, such as an unparseable date
	ErrValidation = errors.New("validation failed")
)
