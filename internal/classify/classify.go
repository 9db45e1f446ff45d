// Package classify decides whether a processing failure is worth retrying.
// Boundaries that know the answer attach a typed classification; anything
// else falls back to a substring policy table shared by all call sites.
package classify

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the retry classification of a failure.
type Kind int

const (
	// Transient failures (network blips, rate limits, timeouts) are
	// eligible for retry on a later cycle.
	Transient Kind = iota
	// Permanent failures cannot succeed by retrying with the same inputs.
	Permanent
)

func (k Kind) String() string {
	if k == Permanent {
		return "permanent"
	}
	return "transient"
}

// Error carries an explicit classification decided at the boundary that
// produced the failure. It takes precedence over message matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Permanentf builds a permanent-classified error.
func Permanentf(format string, args ...interface{}) error {
	return &Error{Kind: Permanent, Err: fmt.Errorf(format, args...)}
}

// Transientf builds a transient-classified error.
func Transientf(format string, args ...interface{}) error {
	return &Error{Kind: Transient, Err: fmt.Errorf(format, args...)}
}

var (
	// ErrDurationUnavailable marks a failed media-duration probe. The
	// probe may succeed on a later attempt.
	ErrDurationUnavailable = &Error{Kind: Transient, Err: errors.New("media duration unavailable")}

	// ErrSegmentationIneffective marks a split whose output still exceeds
	// the per-request ceiling. Re-running the split with the same inputs
	// cannot change the outcome.
	ErrSegmentationIneffective = &Error{Kind: Permanent, Err: errors.New("segmentation ineffective: chunk exceeds request ceiling")}
)

// permanentPatterns are matched case-insensitively against unstructured
// failure text from providers and external tools.
var permanentPatterns = []string{
	"file not found",
	"unsupported file format",
	"file too large",
	"file is empty",
	"file validation failed",
	"invalid api key",
	"unauthorized",
	"forbidden",
	"unsupported url domain",
	"invalid url",
	"private video",
	"video unavailable",
	"this video is not available",
	"sign in to confirm you're not a bot",
}

// Classify reports the retry classification of err. A typed *Error anywhere
// in the chain wins; otherwise the message falls through to the pattern
// table.
func Classify(err error) Kind {
	if err == nil {
		return Transient
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ClassifyMessage(err.Error())
}

// ClassifyMessage applies the pattern table to a raw failure message. Any
// message matching no permanent pattern is transient.
func ClassifyMessage(message string) Kind {
	lower := strings.ToLower(message)
	for _, pattern := range permanentPatterns {
		if strings.Contains(lower, pattern) {
			return Permanent
		}
	}
	return Transient
}
