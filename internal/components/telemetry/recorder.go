package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	REPORT_BROKEN ReportKind = iota
	REPORT_WARNING
	REPORT_DEBUG
	REPORT_COUNT
)

type Report struct {
	Kind   ReportKind
	Id     string
	Params []any
	Count  int64
}

// Recorder is an API that keeps every report in memory, it is meant to be used in tests
// to assert that a component reported (or did not report) something.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: REPORT_BROKEN, Id: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: REPORT_WARNING, Id: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: REPORT_DEBUG, Id: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: REPORT_COUNT, Id: id, Count: count})
}

// Reports returns a copy of the reports of the given kind.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Has returns true if a report of the given kind has an id containing `substr`.
func (r *Recorder) Has(kind ReportKind, substr string) bool {
	for _, report := range r.Reports(kind) {
		if strings.Contains(report.Id, substr) {
			return true
		}
	}
	return false
}
