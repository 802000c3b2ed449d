package senticorpus

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyCorpus is returned when no usable document survives loading.
var ErrEmptyCorpus = errors.New("corpus contains no usable documents")

// LexiconLoadError reports a lexicon resource that is missing or malformed.
// It is fatal for a run.
type LexiconLoadError struct {
	Path   string
	Line   int // 1-based line or record number, 0 when not applicable
	Reason string
	Err    error
}

func (e *LexiconLoadError) Error() string {
	msg := "load lexicon " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(" (entry %d)", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LexiconLoadError) Unwrap() error { return e.Err }

// UnknownMediaTypeError reports a type code outside {1, 2, 3}.
type UnknownMediaTypeError struct {
	Code string
}

func (e *UnknownMediaTypeError) Error() string {
	return fmt.Sprintf("unknown media type code %q (want 1, 2 or 3)", e.Code)
}

// UnknownPeriodError reports a year or label that maps onto no period.
type UnknownPeriodError struct {
	Value string
}

func (e *UnknownPeriodError) Error() string {
	return fmt.Sprintf("no period covers %q", e.Value)
}

// TokenizationError reports text the tokenizer could not analyse. It only
// affects the document it occurred in.
type TokenizationError struct {
	DocumentID string
	Offset     int
	Reason     string
}

func (e *TokenizationError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("tokenize %s at byte %d: %s", e.DocumentID, e.Offset, e.Reason)
	}
	return fmt.Sprintf("tokenize at byte %d: %s", e.Offset, e.Reason)
}
