package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrMissingConfig ErrorCode = "missing_configuration"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
	ErrReadConfig    ErrorCode = "read_config_failed"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Hub errors
	ErrHubRequest     ErrorCode = "hub_request_failed"
	ErrHubDecode      ErrorCode = "hub_decode_failed"
	ErrHubUnavailable ErrorCode = "hub_unavailable"

	// Pipeline errors
	ErrSeedFailed      ErrorCode = "seed_failed"
	ErrSubscribeFailed ErrorCode = "subscribe_failed"
	ErrForwardFailed   ErrorCode = "forward_failed"

	// Transport errors
	ErrTransportSend   ErrorCode = "transport_send_failed"
	ErrTransportClosed ErrorCode = "transport_closed"
	ErrTransportSpawn  ErrorCode = "transport_spawn_failed"

	// Export errors
	ErrExportFailed ErrorCode = "export_failed"

	// Operation errors
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrUnavailable:     "Service unavailable",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrMissingConfig:   "Missing configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrHubRequest:      "Hub request failed",
	ErrHubDecode:       "Failed to decode hub response",
	ErrHubUnavailable:  "Hub unavailable",
	ErrSeedFailed:      "Failed to seed initial values",
	ErrSubscribeFailed: "Failed to register change subscription",
	ErrForwardFailed:   "Failed to forward state change",
	ErrTransportSend:   "Failed to write record to collector sender",
	ErrTransportClosed: "Collector sender channel is closed",
	ErrTransportSpawn:  "Failed to start collector sender",
	ErrExportFailed:    "Failed to render export document",
	ErrOperationFailed: "Operation failed",
	ErrTimeout:         "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
