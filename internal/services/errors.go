package services

import (
	"errors"
	"fmt"
)

// Schedule service errors
var (
	// Upload errors
	ErrNoFiles         = errors.New("no files uploaded")
	ErrTooManyFiles    = errors.New("too many files")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")

	// Merge errors
	ErrNoScheduleData = errors.New("no schedule data")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrUnknownTable      = errors.New("unknown export table")
)

// UploadError is a rejected upload. Err is one of the upload sentinels;
// File names the offending file when a single file is at fault.
type UploadError struct {
	Err   error
	File  string
	Got   int64
	Limit int64
}

func (e *UploadError) Error() string {
	switch {
	case e.File != "" && e.Limit > 0:
		return fmt.Sprintf("%v: %s is %d bytes, limit is %d", e.Err, e.File, e.Got, e.Limit)
	case e.File != "":
		return fmt.Sprintf("%v: %s", e.Err, e.File)
	case e.Limit > 0:
		return fmt.Sprintf("%v: received %d, limit is %d", e.Err, e.Got, e.Limit)
	}
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
