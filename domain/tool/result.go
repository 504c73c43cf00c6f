package tool

import (
	"errors"
	"fmt"
)

// Status is the outcome tag of a tool call
type Status string

const (
	// StatusSuccess marks a call that produced a report
	StatusSuccess Status = "success"

	// StatusError marks a call that failed
	StatusError Status = "error"
)

// Result is the uniform return value of every tool operation.
// It serializes to the mapping the agent runtime consumes:
// {"status": ..., "report": ..., "image_path": ...} or {"status": ..., "error_message": ...}
type Result struct {
	Status       Status `json:"status" yaml:"status"`
	Report       string `json:"report,omitempty" yaml:"report,omitempty"`
	ImagePath    string `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	// Kind is set on failures only and is not part of the wire mapping
	Kind Kind `json:"-" yaml:"-"`
}

// Success builds a successful result. imagePath may be empty.
func Success(report, imagePath string) Result {
	return Result{
		Status:    StatusSuccess,
		Report:    report,
		ImagePath: imagePath,
	}
}

// Failure converts any error into an error result.
// Classified errors keep their kind and message; anything else becomes
// UnknownError with the message "<prefix>: <err>".
func Failure(err error, prefix string) Result {
	var te *Error
	if errors.As(err, &te) {
		return Result{
			Status:       StatusError,
			ErrorMessage: te.Message,
			Kind:         te.Kind,
		}
	}

	msg := fmt.Sprintf("%v", err)
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return Result{
		Status:       StatusError,
		ErrorMessage: msg,
		Kind:         KindUnknown,
	}
}

// OK reports whether the result is a success
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Message returns the report on success and the error message otherwise
func (r Result) Message() string {
	if r.OK() {
		return r.Report
	}
	return r.ErrorMessage
}
