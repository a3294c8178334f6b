package services

import "errors"

// ErrUnauthorized rejects a caller that is not a member of the room's owning
// entity. The check runs before any mutation: nothing is persisted and
// nothing is broadcast.
var ErrUnauthorized = errors.New("not a member of this room")

// ValidationError rejects malformed input before any store call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
