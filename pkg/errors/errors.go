package errors

import (
	"fmt"
)

// ParseError represents a document or config decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures validation failures that cannot be repaired by defaulting.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DuplicateIDError is returned when two different section definitions claim the same id.
type DuplicateIDError struct {
	ID string
}

// NewDuplicateIDError constructs a DuplicateIDError.
func NewDuplicateIDError(id string) error {
	return &DuplicateIDError{ID: id}
}

func (e *DuplicateIDError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("duplicate section id %q\nHint: every section definition must use a unique id", e.ID)
}

// NotFoundError reports a missing registry or document entry.
type NotFoundError struct {
	Kind string
	ID   string
}

// NewNotFoundError constructs a NotFoundError.
func NewNotFoundError(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == "" {
		return fmt.Sprintf("%q not found", e.ID)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// UnknownSectionError is reported when a section instance references a definition that is not registered.
type UnknownSectionError struct {
	InstanceID   string
	DefinitionID string
}

// NewUnknownSectionError constructs an UnknownSectionError.
func NewUnknownSectionError(instanceID, definitionID string) error {
	return &UnknownSectionError{InstanceID: instanceID, DefinitionID: definitionID}
}

func (e *UnknownSectionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("section %q references unknown definition %q", e.InstanceID, e.DefinitionID)
}

// MalformedDocumentError is returned when a theme document or backup fails its outer schema.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

// NewMalformedDocumentError constructs a MalformedDocumentError.
func NewMalformedDocumentError(reason string, err error) error {
	return &MalformedDocumentError{Reason: reason, Err: err}
}

func (e *MalformedDocumentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

// Unwrap exposes the underlying error.
func (e *MalformedDocumentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SealedError is returned when a definition is registered after the registry started serving lookups.
type SealedError struct {
	ID string
}

// NewSealedError constructs a SealedError.
func NewSealedError(id string) error {
	return &SealedError{ID: id}
}

func (e *SealedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("cannot register section %q: registry is sealed\nHint: register every definition before the first lookup", e.ID)
}
