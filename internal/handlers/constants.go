package handlers

const (
	PlayerCookieName = "player_token"

	ErrInvalidRequest      = "Invalid request"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
)
