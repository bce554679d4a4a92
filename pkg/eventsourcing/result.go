package eventsourcing

import "fmt"

// ResultStatus classifies the outcome of a result-style command.
type ResultStatus int

const (
	// StatusSuccess means the command was applied (possibly as a silent no-op).
	StatusSuccess ResultStatus = iota

	// StatusInvalid means the command was rejected: either an argument
	// validation failure or an illegal state transition. No event was recorded.
	StatusInvalid

	// StatusFailed means the command could not be processed for a reason
	// other than validation (e.g. event serialization failure).
	StatusFailed
)

func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusInvalid:
		return "Invalid"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("ResultStatus(%d)", int(s))
	}
}

// Result is the return value for aggregates that report failures as values
// rather than errors. A zero Result is a success.
type Result struct {
	Status  ResultStatus
	Message string
}

// Success returns a successful Result.
func Success() Result {
	return Result{Status: StatusSuccess}
}

// Invalid returns a rejected Result with a formatted message.
func Invalid(format string, args ...any) Result {
	return Result{Status: StatusInvalid, Message: fmt.Sprintf(format, args...)}
}

// Failed returns a failed Result with a formatted message.
func Failed(format string, args ...any) Result {
	return Result{Status: StatusFailed, Message: fmt.Sprintf(format, args...)}
}

// IsSuccess reports whether the command was applied.
func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// IsFailed reports whether the command was rejected or failed.
func (r Result) IsFailed() bool {
	return r.Status != StatusSuccess
}
