// Package session brackets one model create/edit operation. Open sanitizes
// the schema and record once; the session then holds the removed-key set for
// its lifetime, re-sanitizes form data on Update, recomputes the error map on
// ReportFailures and hands everything to a renderer through Form. Close ends
// the session and discards its state.
package session
