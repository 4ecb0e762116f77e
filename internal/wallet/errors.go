package wallet

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Submission failure taxonomy. Callers branch on these categories; nothing in
// this package retries or collapses them.

var (
	// ErrNoIdentity means no signing identity could be resolved from any
	// session source. The user must reconnect; do not retry automatically.
	ErrNoIdentity = errors.New("wallet: no signing identity available")

	// ErrUserCancelled means the identity holder declined to sign. This is a
	// user decision, not a system failure, and must be presented as such.
	ErrUserCancelled = errors.New("wallet: signing cancelled by user")
)

// TransientError wraps a network-level failure (broadcast, blockhash fetch,
// scan). Safe for the caller to retry with backoff.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("wallet: transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// ProgramError is a rejection by the on-chain program, at simulation or
// execution time. The payload is the node's error response verbatim so
// callers can act on specific program error codes; it is never translated.
type ProgramError struct {
	Message string
	Payload []byte
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("wallet: program rejected transaction: %s", e.Message)
}

// InstructionErrorCode extracts the custom program error code from the
// payload, when the rejection carries one.
func (e *ProgramError) InstructionErrorCode() (int64, bool) {
	code := gjson.GetBytes(e.Payload, "err.InstructionError.1.Custom")
	if !code.Exists() {
		return 0, false
	}
	return code.Int(), true
}

// Logs returns the program log lines attached to the rejection, if any.
func (e *ProgramError) Logs() []string {
	result := gjson.GetBytes(e.Payload, "logs")
	if !result.IsArray() {
		return nil
	}
	var logs []string
	for _, line := range result.Array() {
		logs = append(logs, line.String())
	}
	return logs
}
