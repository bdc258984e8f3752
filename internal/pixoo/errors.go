package pixoo

import (
	"fmt"
)

// TransportError means the request never produced an HTTP response
// (DNS, dial, TLS, timeout, connection reset). Usually worth retrying later.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP error: %d", e.Op, e.StatusCode)
}

// ProtocolError is a 2xx response whose body could not be decoded.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// VendorError is a nonzero return code embedded in a 2xx response body.
// It usually points at configuration (bad media id, unsupported command).
type VendorError struct {
	Op      string
	Code    int
	Message string
}

func (e *VendorError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (code: %d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: error code: %d", e.Op, e.Code)
}
