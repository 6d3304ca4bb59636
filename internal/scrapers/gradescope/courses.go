package gradescope

import (
	"context"
	"fmt"

	"gradescope-reminder/pkg/htmlutil"
)

// selectorStrategy is one way of finding elements on a page, strategies are tried in
// order until one of them finds something.
type selectorStrategy struct {
	name     string
	selector string
}

func firstMatching(root htmlutil.Element, strategies []selectorStrategy) ([]htmlutil.Element, string) {
	for _, strategy := range strategies {
		found := root.FindAll(strategy.selector)
		if len(found) > 0 {
			return found, strategy.name
		}
	}
	return nil, ""
}

var courseAnchorStrategies = []selectorStrategy{
	{
		name:     "courses-for-term",
		selector: ".courseList--coursesForTerm a.courseBox[href^='/courses/']",
	},
	// catches course boxes that were moved out of their term container
	{
		name:     "any-course-box",
		selector: "a.courseBox",
	},
}

func courseFromAnchor(site Site, anchor htmlutil.Element) (Course, bool) {
	link, ok := anchor.Href(site.BaseUrl)
	if !ok {
		return Course{}, false
	}

	var name, term string
	if el, ok := anchor.Find(".courseBox--name"); ok {
		name = el.Text()
	}
	if el, ok := anchor.Find(".courseBox--shortTerm"); ok {
		term = el.Text()
	}

	if term == "" {
		if section, ok := anchor.Closest("div.courseList"); ok {
			if el, ok := section.Find(".courseList--term"); ok {
				term = el.Text()
			}
		}
	}
	if name == "" {
		name = anchor.Text()
	}

	return Course{
		Name: composeCourseName(name, term),
		Url:  link,
	}, true
}

func (s *Scraper) parseCourses(doc htmlutil.Document) []Course {
	anchors, strategy := firstMatching(doc.Element, courseAnchorStrategies)
	s.tel.ReportDebug("found course anchors", len(anchors), strategy)

	var courses []Course
	for _, anchor := range anchors {
		course, ok := courseFromAnchor(s.site, anchor)
		if !ok {
			s.tel.ReportDebug("skipped course anchor without href", anchor.Text())
			continue
		}
		courses = append(courses, course)
	}
	return courses
}

// Courses lists the courses on the account page, no courses is not an error.
func (s *Scraper) Courses(ctx context.Context) ([]Course, error) {
	endpoint := s.site.AccountUrl()
	s.tel.ReportDebug("get courses", endpoint)

	doc, err := s.fetchDocument(ctx, endpoint)
	if err != nil {
		s.tel.ReportBroken(report_scraper_list_courses, err, endpoint)
		return nil, fmt.Errorf("list courses: %w", err)
	}

	courses := s.parseCourses(doc)
	if len(courses) == 0 {
		s.tel.ReportWarning(
			report_scraper_list_courses,
			fmt.Errorf("no courses found"),
			endpoint,
		)
	}
	s.tel.ReportCount(report_scraper_list_courses, int64(len(courses)))

	return courses, nil
}
