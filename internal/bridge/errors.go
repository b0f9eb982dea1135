package bridge

import "codeberg.org/mutker/miosbridge/internal/errors"

const (
	ErrSeedFailed      = errors.ErrSeedFailed
	ErrSubscribeFailed = errors.ErrSubscribeFailed
	ErrForwardFailed   = errors.ErrForwardFailed
	ErrEnumerate       = errors.ErrHubRequest
)
