// Package apiclient is the HTTP adapter in front of the university REST
// backend.
//
// Every call is a single attempt. The bound session's bearer token is attached
// to each request, and a 401 response expires that session before the error is
// returned to the caller. Other failures are passed up untouched as *APIError
// or as a wrapped ErrUnavailable for transport problems.
package apiclient
