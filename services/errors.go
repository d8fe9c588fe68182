package services

import "errors"

// Sentinel errors services hand back to the HTTP boundary. Handlers map them
// onto status codes; everything else becomes a 500.
var (
	ErrNotFound      = errors.New("not found")
	ErrDataNotFound  = errors.New("game data not found")
	ErrForbidden     = errors.New("you are not allowed to modify this game")
	ErrDuplicateName = errors.New("a game with that name already exists")
	ErrInvalidGame   = errors.New("invalid game data")
)
