package api

import "fmt"

// RemoteAPIError is an application-level failure reported by the remote in
// its result header (result.action == "API_ERROR"). Diagnostic carries the
// server's result.api string.
type RemoteAPIError struct {
	Diagnostic string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("API error: %s", e.Diagnostic)
}

// UnknownMethodError reports a name that does not follow the Module_Method
// naming convention and so cannot be mapped to a remote action.
type UnknownMethodError struct {
	Name string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("client has no method %q", e.Name)
}

// TransportError classifies failures the remote never had a chance to report
// in-band: connection and DNS errors, cancelled contexts, unreadable or
// undecodable response bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
