package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("image source unavailable")
	ErrBatchCancelled    = errors.New("batch cancelled before unit was scheduled")
)

// ValidationError reports the record fields a template kind requires but the
// record does not carry. Fatal for that record only.
type ValidationError struct {
	RecordID string
	Kind     TemplateKind
	Missing  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %s: missing required fields for %s: %s",
		e.RecordID, e.Kind, strings.Join(e.Missing, ", "))
}

// RenderError wraps a canvas or backend failure. Fatal for that record only.
type RenderError struct {
	Kind TemplateKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TimeoutError marks a unit that exceeded its time budget.
type TimeoutError struct {
	RecordID string
	Kind     TemplateKind
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("unit %s/%s exceeded its timeout", e.RecordID, e.Kind)
}

// CapacityError marks a unit whose memory admission was blocked beyond the
// configured wait bound.
type CapacityError struct {
	RecordID string
	Kind     TemplateKind
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("unit %s/%s: memory admission blocked beyond wait bound", e.RecordID, e.Kind)
}
