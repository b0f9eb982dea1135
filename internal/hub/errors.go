package hub

import "codeberg.org/mutker/miosbridge/internal/errors"

const (
	// Request Errors
	ErrRequestFailed = errors.ErrHubRequest
	ErrDecodeFailed  = errors.ErrHubDecode
	ErrBadStatus     = errors.ErrorCode("hub_bad_status")

	// Subscription Errors
	ErrEmptyClass = errors.ErrorCode("hub_empty_class")
	ErrNilHandler = errors.ErrorCode("hub_nil_handler")
)
