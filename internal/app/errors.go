package service

import "errors"

// Sentinel kinds for capture submission failures. These allow errors.Is
// from the HTTP layer when mapping to status codes.
var (
	ErrUnknownTeam       = errors.New("unknown team")
	ErrWindowClosed      = errors.New("capture window closed")
	ErrChallengeRequired = errors.New("challenge is required")
)
