package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Submission errors
	ErrNotEligible    = fmt.Errorf("submission not eligible for tracking")
	ErrNoFiles        = fmt.Errorf("no files selected")
	ErrSessionActive  = fmt.Errorf("another upload session is active")
	ErrMissingAction  = fmt.Errorf("no submission target URL")
	ErrFileUnreadable = fmt.Errorf("file could not be read")

	// Transfer errors
	ErrTransport    = fmt.Errorf("transfer failed before a response was received")
	ErrServerStatus = fmt.Errorf("server rejected the upload")
	ErrCancelled    = fmt.Errorf("upload cancelled")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
