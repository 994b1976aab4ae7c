package shm

import "fmt"

// ConfigError reports a construction-time configuration problem: a bad
// capacity, a region too small for the requested layout, or a header that
// does not agree with the caller's expectations. It is never recoverable
// by retrying; the caller has to fix the region or its configuration.
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("shm: config error [%s]: %s", e.Code, e.Message)
}

func newConfigError(code, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a programming error: an empty or oversize
// payload, or a non-power-of-two capacity passed to a helper that requires
// one. These are bugs in the caller, not runtime conditions to retry.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("shm: precondition violated [%s]: %s", e.Code, e.Message)
}

func newPreconditionError(code, format string, args ...any) *PreconditionError {
	return &PreconditionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CorruptionError reports a runtime invariant violation observed while
// reading or writing the ring: a head/tail spread outside [0, capacity], a
// zero-length committed record, or a record that spans the end of the ring
// without a wrap marker. The only safe response is to stop using the region.
type CorruptionError struct {
	Code    string
	Message string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("shm: region corrupt [%s]: %s", e.Code, e.Message)
}

func newCorruptionError(code, format string, args ...any) *CorruptionError {
	return &CorruptionError{Code: code, Message: fmt.Sprintf(format, args...)}
}
