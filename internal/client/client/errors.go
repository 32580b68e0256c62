package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// ReplyError is a command the server refused, with the message meant for the user.
type ReplyError struct {
	Code    codes.Code
	Message string
}

func (e *ReplyError) Error() string { return e.Message }

// Unwrap lets identity failures match ErrUnauthorized.
func (e *ReplyError) Unwrap() error {
	if e.Code == codes.Unauthenticated {
		return ErrUnauthorized
	}
	return nil
}
