// Package interfaces defines the data model and the error taxonomy shared by
// the rest of the module.
//
// # Data Model
//
//   - Credentials: the validated key pair, passed explicitly to the request client
//   - QueryOptions: method, resource path and query parameters of one request
//   - QueryResult / Asset: the decoded collection returned by the API
//
// # Errors
//
// Every failure is reported as an *Error carrying one ErrorKind. The entry
// point maps the kind to an operator-facing message (Error.Message) and an
// exit status (ErrorKind.Status). Kinds that indicate a bug rather than an
// operator mistake also carry a stack trace (Error.Trace).
//
//	if errors.Is(err, interfaces.ErrAuthenticationRejected) {
//	    // credentials were refused by the API
//	}
package interfaces
