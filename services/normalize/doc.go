// Package normalize maps upstream response bodies into the canonical payload
// of each operation.
//
// Every function is pure. A body that cannot be interpreted is reported as
// ErrUnparseable; a well-formed body that carries no usable result is
// reported as ErrEmpty. Callers classify failures with errors.Is.
package normalize
