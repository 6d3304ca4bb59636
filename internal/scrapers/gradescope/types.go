package gradescope

import (
	"net/url"
)

type Course struct {
	// Name is "<title> - <term>" if the term could be found, otherwise just the title.
	Name string
	Url  *url.URL
}

// Assignment is an assignment that has not been submitted (or graded) yet, completed
// assignments are never represented.
type Assignment struct {
	Name    string
	Link    string
	Status  string
	DueDate string
	// CourseName is only filled in once the assignment is attached to a course.
	CourseName string
}

func composeCourseName(name, term string) string {
	if term == "" {
		return name
	}
	return name + " - " + term
}
