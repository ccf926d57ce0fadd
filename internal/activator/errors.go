package activator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors - configuration
var (
	ErrMissingPrivateKey = errors.New("activator: private key is required")
	ErrMissingEndpoint   = errors.New("activator: endpoint is required")
	ErrMissingAddress    = errors.New("activator: program address is required")
	ErrInvalidAddress    = errors.New("activator: invalid program address")
)

// Sentinel errors - chain
var (
	ErrNoCode          = errors.New("activator: no code at program address")
	ErrProgramUpToDate = errors.New("activator: program is already activated")
)

// RPCError represents a node-side failure. The node's message is passed
// through verbatim so operators see exactly what the chain rejected.
type RPCError struct {
	Code    int
	Message string
	Data    []byte
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("rpc error: %s", e.Message)
}

// Is implements the errors.Is interface for node failure mapping. This
// allows checking RPCError against sentinel errors based on the node's
// revert reason.
func (e *RPCError) Is(target error) bool {
	switch {
	case strings.Contains(e.Message, "ProgramUpToDate"):
		return errors.Is(target, ErrProgramUpToDate)
	default:
		return false
	}
}

// SigningError wraps invalid private key material. It is always raised
// before any network call is made.
type SigningError struct {
	Err error
}

// Error implements the error interface.
func (e *SigningError) Error() string {
	return fmt.Sprintf("invalid private key: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface for error chaining.
func (e *SigningError) Unwrap() error {
	return e.Err
}
