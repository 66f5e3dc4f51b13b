package error

import "fmt"

// PublishError marks one job as failed. The dispatcher keeps going.
type PublishError struct {
	Path  string
	Cause error
}

func NewPublishError(path string, cause error) *PublishError {
	return &PublishError{Path: path, Cause: cause}
}

func (err *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", err.Path, err.Cause)
}

func (err *PublishError) Unwrap() error {
	return err.Cause
}

func (err *PublishError) ErrCode() string {
	return "PUBLISH_ERROR"
}

// ArchivalError is logged as a warning and never changes a job's outcome.
type ArchivalError struct {
	Path  string
	Cause error
}

func NewArchivalError(path string, cause error) *ArchivalError {
	return &ArchivalError{Path: path, Cause: cause}
}

func (err *ArchivalError) Error() string {
	return fmt.Sprintf("archive %s: %v", err.Path, err.Cause)
}

func (err *ArchivalError) Unwrap() error {
	return err.Cause
}

func (err *ArchivalError) ErrCode() string {
	return "ARCHIVAL_ERROR"
}
