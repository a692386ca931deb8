package errors

import (
	"fmt"
	"strings"
)

// Kind classifies inspection failures
type Kind int

const (
	KindUnknown Kind = iota
	KindIo
	KindNotAnApk
	KindMalformedApk
	KindMalformedChunk
	KindManifestDecode
	KindCertificateDecode
	KindConfiguration
	KindDependency
)

// String returns the machine-readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindIo:
		return "IO_ERROR"
	case KindNotAnApk:
		return "NOT_AN_APK"
	case KindMalformedApk:
		return "MALFORMED_APK"
	case KindMalformedChunk:
		return "MALFORMED_CHUNK"
	case KindManifestDecode:
		return "MANIFEST_DECODE_FAILURE"
	case KindCertificateDecode:
		return "CERTIFICATE_DECODE_FAILURE"
	case KindConfiguration:
		return "CONFIGURATION"
	case KindDependency:
		return "DEPENDENCY"
	default:
		return "UNKNOWN"
	}
}

// InspectError is an error with a machine-readable kind and optional context
type InspectError struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Cause   error             `json:"cause,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// Error implements the error interface
func (e *InspectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *InspectError) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind
func (e *InspectError) Is(target error) bool {
	if t, ok := target.(*InspectError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// WithContext attaches a key/value pair to the error
func (e *InspectError) WithContext(key, value string) *InspectError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// FormatDetailed renders the error with kind, context and cause
func (e *InspectError) FormatDetailed() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s: %s\n", e.Kind.String(), e.Message))
	for key, value := range e.Context {
		builder.WriteString(fmt.Sprintf("  %s: %s\n", key, value))
	}
	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("  cause: %v\n", e.Cause))
	}
	return builder.String()
}

// New creates a new InspectError
func New(kind Kind, message string) *InspectError {
	return &InspectError{Kind: kind, Message: message}
}

// Newf creates a new InspectError with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *InspectError {
	return &InspectError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error under a kind
func Wrap(err error, kind Kind, message string) *InspectError {
	return &InspectError{Kind: kind, Message: message, Cause: err}
}

// KindOf reports the kind of err, or KindUnknown for foreign errors
func KindOf(err error) Kind {
	if e, ok := err.(*InspectError); ok {
		return e.Kind
	}
	return KindUnknown
}

// NewIoError reports a byte source that could not be read
func NewIoError(err error, source string) *InspectError {
	return Wrap(err, KindIo, "cannot read byte source").WithContext("source", source)
}

// NewNotAnApk reports a target that is not a readable ZIP archive
func NewNotAnApk(path string, cause error) *InspectError {
	return Wrap(cause, KindNotAnApk, "target is not a readable ZIP archive").WithContext("path", path)
}

// NewMalformedApk reports a missing or invalid distinguished entry
func NewMalformedApk(cause error, detail string) *InspectError {
	return Wrap(cause, KindMalformedApk, detail)
}

// NewMalformedChunk reports an unknown or inconsistent AXML chunk
func NewMalformedChunk(format string, args ...interface{}) *InspectError {
	return Newf(KindMalformedChunk, format, args...)
}

// NewManifestDecode reports that both the AXML and fallback paths failed
func NewManifestDecode(cause error) *InspectError {
	return Wrap(cause, KindManifestDecode, "manifest could not be decoded")
}

// NewCertificateDecode reports a certificate dump that could not be parsed
func NewCertificateDecode(detail string) *InspectError {
	return New(KindCertificateDecode, detail)
}
