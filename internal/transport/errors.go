package transport

import "codeberg.org/mutker/miosbridge/internal/errors"

const (
	ErrSendFailed  = errors.ErrTransportSend
	ErrClosed      = errors.ErrTransportClosed
	ErrSpawnFailed = errors.ErrTransportSpawn

	ErrInvalidServer = errors.ErrorCode("transport_invalid_server")
)
