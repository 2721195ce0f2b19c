// Package classifyerror defines the rejection taxonomy of the classification pipeline.
//
// Terminal, user-facing rejections (moderation, amount, category, empty input) are
// surfaced to the caller. RemoteError is recoverable: the pipeline answers it with
// the local classifier and never returns it.
package classifyerror

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is.
var (
	ErrEmptyMessage       = errors.New("message is empty")
	ErrModerationRejected = errors.New("message rejected by moderation")
	ErrNoAmountFound      = errors.New("no amount found in message")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrNoCategoryMatch    = errors.New("no category matched the message")
	ErrUnknownCategory    = errors.New("category is not part of the vocabulary")
	ErrRemote             = errors.New("remote classification failed")

	// ErrRemoteDisabled is returned by the null remote classifier. It matches
	// ErrRemote.
	ErrRemoteDisabled = fmt.Errorf("%w: no remote provider configured", ErrRemote)
)

// ModerationRejectedError carries the moderation outcome that stopped the pipeline.
type ModerationRejectedError struct {
	MatchedTerm string
	Source      string
}

func (e *ModerationRejectedError) Error() string {
	if e.MatchedTerm == "" {
		return fmt.Sprintf("%s (source: %s)", ErrModerationRejected, e.Source)
	}
	return fmt.Sprintf("%s: matched %q (source: %s)", ErrModerationRejected, e.MatchedTerm, e.Source)
}

func (e *ModerationRejectedError) Unwrap() error {
	return ErrModerationRejected
}

// AmountError represents a failed amount extraction. Err is ErrNoAmountFound or
// ErrInvalidAmount.
type AmountError struct {
	Input string
	Value string
	Err   error
}

func (e *AmountError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("amount extraction failed for %q (value %s): %v", e.Input, e.Value, e.Err)
	}
	return fmt.Sprintf("amount extraction failed for %q: %v", e.Input, e.Err)
}

func (e *AmountError) Unwrap() error {
	return e.Err
}

// CategoryError represents a message no category keyword matched.
type CategoryError struct {
	Input string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("categorization failed for %q: %v", e.Input, ErrNoCategoryMatch)
}

func (e *CategoryError) Unwrap() error {
	return ErrNoCategoryMatch
}

// RemoteError represents a failure of an external classification or moderation
// service: transport, timeout, non-2xx, unparsable output or missing fields.
type RemoteError struct {
	Provider string
	Op       string
	Err      error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRemote) match every RemoteError.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// NewRemoteError wraps err as a RemoteError.
func NewRemoteError(provider, op string, err error) *RemoteError {
	return &RemoteError{Provider: provider, Op: op, Err: err}
}

// IsUserFacing reports whether err is a terminal rejection the caller must show
// to the user (as opposed to an internal failure).
func IsUserFacing(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrModerationRejected),
		errors.Is(err, ErrNoAmountFound),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNoCategoryMatch):
		return true
	default:
		return false
	}
}

// Reason returns a stable machine-readable code for a rejection.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, ErrModerationRejected):
		return "moderation_rejected"
	case errors.Is(err, ErrNoAmountFound):
		return "no_amount_found"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrNoCategoryMatch):
		return "no_category_match"
	case errors.Is(err, ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, ErrRemote):
		return "remote_error"
	default:
		return "internal_error"
	}
}
