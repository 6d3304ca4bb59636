// Package reminder ties the scraper and the notifier together into a single run.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"gradescope-reminder/internal/components/assert"
	"gradescope-reminder/internal/components/telemetry"
	"gradescope-reminder/internal/scrapers/gradescope"
	"gradescope-reminder/pkg/textutil"

	"github.com/mazen160/go-random"
)

const (
	report_runner_courses = "runner.courses"
	report_runner_notify  = "runner.notify"
	report_runner_found   = "runner.found"
)

var ErrNoCourses = errors.New("no courses found")

type Scraper interface {
	Login(ctx context.Context, email, password string) error
	Courses(ctx context.Context) ([]gradescope.Course, error)
	Unsubmitted(ctx context.Context, courseUrl *url.URL) []gradescope.Assignment
}

type Notifier interface {
	Notify(ctx context.Context, assignments []gradescope.Assignment) error
}

type Options struct {
	Email    string
	Password string
	// CourseFilters limits the run to courses whose name contains one of the filters,
	// no filters means every course.
	CourseFilters []string
	// ForceTest sends a synthetic assignment when nothing is outstanding.
	ForceTest bool
	NoEmail   bool
}

type Result struct {
	Courses     []gradescope.Course
	Assignments []gradescope.Assignment
	// Notified is true if an email was handed to the notifier without error.
	Notified bool
}

type Runner struct {
	scraper  Scraper
	notifier Notifier
	opts     Options
	out      io.Writer
	tel      telemetry.API
}

func NewRunner(scraper Scraper, notifier Notifier, opts Options, out io.Writer, tel telemetry.API) *Runner {
	assert.NotNil(scraper)
	assert.NotNil(notifier)
	assert.NotNil(out)
	assert.NotNil(tel)
	return &Runner{
		scraper:  scraper,
		notifier: notifier,
		opts:     opts,
		out:      out,
		tel:      telemetry.NewScopedAPI("reminder", tel),
	}
}

func (r *Runner) selectCourses(courses []gradescope.Course) []gradescope.Course {
	if len(r.opts.CourseFilters) == 0 {
		return courses
	}
	var selected []gradescope.Course
	for _, c := range courses {
		if textutil.MatchName(c.Name, r.opts.CourseFilters) {
			selected = append(selected, c)
		}
	}
	return selected
}

func syntheticAssignment() gradescope.Assignment {
	nonce, err := random.String(8)
	if err != nil {
		nonce = "test"
	}
	return gradescope.Assignment{
		Name:       fmt.Sprintf("Test assignment %s", nonce),
		Link:       gradescope.DefaultBaseUrl,
		Status:     "Test",
		DueDate:    "N/A",
		CourseName: "Gradescope Reminder",
	}
}

// Run logs in, collects the outstanding assignments of every selected course and sends
// a single notification about them. Only login and course listing failures are
// returned as errors, everything else degrades the result.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	fmt.Fprintln(r.out, "Logging in to gradescope...")
	err := r.scraper.Login(ctx, r.opts.Email, r.opts.Password)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintln(r.out, "Login successful.")

	courses, err := r.scraper.Courses(ctx)
	if err != nil {
		return Result{}, err
	}
	courses = r.selectCourses(courses)
	if len(courses) == 0 {
		r.tel.ReportWarning(report_runner_courses, ErrNoCourses)
		return Result{}, ErrNoCourses
	}
	fmt.Fprintf(r.out, "Found %d courses.\n", len(courses))

	result := Result{Courses: courses}
	for _, course := range courses {
		err := ctx.Err()
		if err != nil {
			return result, err
		}

		fmt.Fprintf(r.out, "\nChecking course: %s\n", course.Name)
		found := r.scraper.Unsubmitted(ctx, course.Url)
		for _, a := range found {
			a.CourseName = course.Name
			result.Assignments = append(result.Assignments, a)
		}
	}
	r.tel.ReportCount(report_runner_found, int64(len(result.Assignments)))

	WriteSummary(r.out, result.Assignments)

	toSend := result.Assignments
	if len(toSend) == 0 && r.opts.ForceTest {
		r.tel.ReportDebug("nothing outstanding, sending a test notification")
		toSend = []gradescope.Assignment{syntheticAssignment()}
	}
	if len(toSend) == 0 {
		return result, nil
	}
	if r.opts.NoEmail {
		r.tel.ReportDebug("email disabled, skipping notification")
		return result, nil
	}

	err = r.notifier.Notify(ctx, toSend)
	if err != nil {
		r.tel.ReportWarning(report_runner_notify, err)
		return result, nil
	}
	result.Notified = true
	return result, nil
}
