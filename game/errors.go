package game

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrAlreadyBound = errors.New("session already bound to a room")
)

// Protocol error strings sent to clients.
const (
	ErrRoomNotFoundStr = "room-not-found"
	ErrAlreadyBoundStr = "already-bound"
	ErrBadRequestStr   = "bad-request-format"
)
