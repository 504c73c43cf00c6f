package tool

import "fmt"

// Kind classifies a tool failure
type Kind string

const (
	// KindConfig indicates a required setting is missing
	KindConfig Kind = "ConfigError"

	// KindNotFound indicates a file does not exist
	KindNotFound Kind = "NotFoundError"

	// KindRange indicates a frame index or timestamp outside the video bounds
	KindRange Kind = "RangeError"

	// KindDecode indicates a video, frame or image could not be read
	KindDecode Kind = "DecodeError"

	// KindUnknown is any other failure
	KindUnknown Kind = "UnknownError"
)

// Kinds lists every error kind
var Kinds = []Kind{KindConfig, KindNotFound, KindRange, KindDecode, KindUnknown}

// Error is a classified tool failure. Message is shown to the agent verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configf returns a ConfigError
func Configf(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a NotFoundError
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Rangef returns a RangeError
func Rangef(format string, args ...any) *Error {
	return &Error{Kind: KindRange, Message: fmt.Sprintf(format, args...)}
}

// Decodef returns a DecodeError
func Decodef(format string, args ...any) *Error {
	return &Error{Kind: KindDecode, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a classified error
func Wrap(e *Error, cause error) *Error {
	e.Err = cause
	return e
}
