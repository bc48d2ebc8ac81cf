package interfaces

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorKind enumerates every way a single inventory run can fail. Each kind
// is terminal.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMissingConfiguration
	KindCredentialFileNotFound
	KindInvalidPrivateKeyFormat
	KindInvalidPublicKeyFormat
	KindUnknownCredential
	KindAuthenticationRejected
	KindCommunication
	KindUnknownRequest
	KindMalformedAsset
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                 "UnknownError",
	KindMissingConfiguration:    "MissingConfiguration",
	KindCredentialFileNotFound:  "CredentialFileNotFound",
	KindInvalidPrivateKeyFormat: "InvalidPrivateKeyFormat",
	KindInvalidPublicKeyFormat:  "InvalidPublicKeyFormat",
	KindUnknownCredential:       "UnknownCredentialError",
	KindAuthenticationRejected:  "AuthenticationRejected",
	KindCommunication:           "CommunicationError",
	KindUnknownRequest:          "UnknownRequestError",
	KindMalformedAsset:          "MalformedAsset",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Status returns the process exit status for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindMissingConfiguration:
		return 2
	case KindCredentialFileNotFound, KindInvalidPrivateKeyFormat, KindInvalidPublicKeyFormat, KindUnknownCredential:
		return 3
	case KindAuthenticationRejected:
		return 4
	case KindCommunication:
		return 5
	case KindUnknownRequest:
		return 6
	case KindMalformedAsset:
		return 7
	default:
		return 1
	}
}

// Traced reports whether errors of this kind are unexpected and should be
// reported together with a stack trace.
func (k ErrorKind) Traced() bool {
	return k == KindUnknownCredential || k == KindUnknownRequest || k == KindUnknown
}

// Sentinels for errors.Is. Matching is done by kind only.
var (
	ErrMissingConfiguration    = &Error{Kind: KindMissingConfiguration}
	ErrCredentialFileNotFound  = &Error{Kind: KindCredentialFileNotFound}
	ErrInvalidPrivateKeyFormat = &Error{Kind: KindInvalidPrivateKeyFormat}
	ErrInvalidPublicKeyFormat  = &Error{Kind: KindInvalidPublicKeyFormat}
	ErrUnknownCredential       = &Error{Kind: KindUnknownCredential}
	ErrAuthenticationRejected  = &Error{Kind: KindAuthenticationRejected}
	ErrCommunication           = &Error{Kind: KindCommunication}
	ErrUnknownRequest          = &Error{Kind: KindUnknownRequest}
	ErrMalformedAsset          = &Error{Kind: KindMalformedAsset}
)

// Error is the single error type surfaced to the entry point.
type Error struct {
	Kind ErrorKind

	// Path is the credential file involved, if any.
	Path string
	// Field and Index locate a malformed asset.
	Field string
	Index int
	// StatusCode is the HTTP status returned by the API, if any.
	StatusCode int

	Err error
}

// NewError wraps err with the given kind. Kinds that are reported with a
// stack trace get one recorded here.
func NewError(kind ErrorKind, err error) *Error {
	if err != nil && kind.Traced() {
		err = pkgerrors.WithStack(err)
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch {
	case e.Path != "":
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	case e.Field != "":
		msg = fmt.Sprintf("%s (asset %d: %s)", msg, e.Index, e.Field)
	case e.StatusCode != 0:
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Message is the short operator-facing description of the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMissingConfiguration:
		return "Please set a path to your intersight credential files using environment variables:\n" +
			"\t- " + PrivateKeyPathEnv + "\n" +
			"\t- " + PublicKeyPathEnv
	case KindCredentialFileNotFound:
		return fmt.Sprintf("The referenced key file couldn't be found - please verify the supplied path: %s", e.Path)
	case KindInvalidPrivateKeyFormat:
		return "There's a format error in the referenced private key file - please check it"
	case KindInvalidPublicKeyFormat:
		return "There's a format error in the referenced public key file - please check it"
	case KindUnknownCredential:
		return fmt.Sprintf("There was an unknown error related to your credentials: %q", causeText(e.Err))
	case KindAuthenticationRejected:
		return "The supplied credentials weren't accepted by Intersight - please check them"
	case KindCommunication:
		return "There was a problem communicating with Intersight"
	case KindUnknownRequest:
		return fmt.Sprintf("There was an unknown error while querying Intersight: %q", causeText(e.Err))
	case KindMalformedAsset:
		return fmt.Sprintf("Intersight returned an asset without the %s field (entry %d)", e.Field, e.Index)
	default:
		return fmt.Sprintf("Unexpected error: %q", causeText(e.Err))
	}
}

// Trace returns the recorded stack trace, or "" if none was captured.
func (e *Error) Trace() string {
	var tracer interface{ StackTrace() pkgerrors.StackTrace }
	if !errors.As(e.Err, &tracer) {
		return ""
	}
	return fmt.Sprintf("%+v", e.Err)
}

// AsError returns the *Error carried by err, classifying anything outside the
// taxonomy as KindUnknown.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindUnknown, err)
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return pkgerrors.Cause(err).Error()
}
