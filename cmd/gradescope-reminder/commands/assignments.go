package commands

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gradescope-reminder/internal/reminder"
	"gradescope-reminder/internal/scrapers/gradescope"
	"gradescope-reminder/pkg/textutil"

	"github.com/spf13/cobra"
)

// below this the closest course name is considered a different course
const minCourseSimilarity = 0.7

func init() {
	rootCmd.AddCommand(assignmentsCmd)
}

func isCourseUrl(query string) bool {
	return strings.HasPrefix(query, "http://") ||
		strings.HasPrefix(query, "https://") ||
		strings.HasPrefix(query, "/courses/")
}

func resolveCourse(site gradescope.Site, courses []gradescope.Course, query string) (gradescope.Course, error) {
	if isCourseUrl(query) {
		ref, err := url.Parse(query)
		if err != nil {
			return gradescope.Course{}, fmt.Errorf("invalid course url: %w", err)
		}
		return gradescope.Course{
			Name: query,
			Url:  site.BaseUrl.ResolveReference(ref),
		}, nil
	}

	names := make([]string, len(courses))
	for i, c := range courses {
		names[i] = c.Name
	}
	index, similarity := textutil.ClosestName(query, names)
	if index < 0 || similarity < minCourseSimilarity {
		return gradescope.Course{}, fmt.Errorf("no course looks like '%s'", query)
	}
	return courses[index], nil
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments <course name or url>",
	Short: "Prints the unsubmitted assignments of a single course.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, scraper, _, err := login(cmd.Context())
		if err != nil {
			return err
		}

		var courses []gradescope.Course
		if !isCourseUrl(args[0]) {
			courses, err = scraper.Courses(cmd.Context())
			if err != nil {
				return err
			}
		}

		course, err := resolveCourse(scraper.Site(), courses, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Checking course: %s\n", course.Name)

		assignments := scraper.Unsubmitted(cmd.Context(), course.Url)
		for i := range assignments {
			assignments[i].CourseName = course.Name
		}
		reminder.WriteSummary(os.Stdout, assignments)
		return nil
	},
}
