// Package telemetry is the single place components report problems, debug output and
// counts through, so tests can swap it for a Recorder.
package telemetry

import (
	"fmt"
)

// API is implemented by SlogAPI in the CLI and Recorder in tests.
//
// Ids name the component that broke, not the line that broke: a failed request while
// listing gradescope courses is `scraper.list-courses`, and the http details go into the
// params or the wrapped error. Ids are lowercase with dashes between words, the package
// part comes from NewScopedAPI.
type API interface {
	// ReportBroken reports a component that failed and needs fixing.
	ReportBroken(id string, params ...any)
	// ReportWarning reports something unexpected that the caller recovered from.
	ReportWarning(id string, params ...any)
	// ReportDebug is only visible with debug logging.
	ReportDebug(msg string, params ...any)
	// ReportCount reports how many of something there were at one point in time, counts
	// are not meant to be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, "gradescope: scraper.login".
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
