package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrScan            = errors.New("scan failed")
	ErrRead            = errors.New("read failed")
	ErrGraphParse      = errors.New("graph parse failed")
	ErrIndexLoad       = errors.New("index load failed")
)

// ScanError means the root directory could not be traversed. Fatal.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

func (e *ScanError) Is(target error) bool {
	return target == ErrScan
}

// ReadError means a discovered file could not be stat'ed or read. Fatal.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

// GraphParseError means a graph document was skipped. Recovered per file.
type GraphParseError struct {
	Path string
	Err  error
}

func (e *GraphParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *GraphParseError) Unwrap() error { return e.Err }

func (e *GraphParseError) Is(target error) bool {
	return target == ErrGraphParse
}

// IndexLoadError means the prior index could not be used; the build
// continues from an empty mapping.
type IndexLoadError struct {
	Location string
	Err      error
}

func (e *IndexLoadError) Error() string {
	return fmt.Sprintf("loading index %s: %v (rebuilding from scratch)", e.Location, e.Err)
}

func (e *IndexLoadError) Unwrap() error { return e.Err }

func (e *IndexLoadError) Is(target error) bool {
	return target == ErrIndexLoad
}

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}
