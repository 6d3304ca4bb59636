package gradescope

import (
	"context"
	"fmt"
	"net/url"

	"gradescope-reminder/pkg/htmlutil"
)

const assignmentTableSelector = "table#assignments-student-table"

// submission buttons only carry a POST endpoint, so only anchors count as links
const assignmentLinkSelector = "a[href]"

func assignmentHeader(row htmlutil.Element) (htmlutil.Element, bool) {
	headers := row.Children("th[scope=row]")
	if len(headers) == 0 {
		headers = row.Children("th")
	}
	if len(headers) == 0 {
		return htmlutil.Element{}, false
	}
	return headers[0], true
}

func assignmentLink(base *url.URL, header htmlutil.Element) (string, bool) {
	anchor, ok := header.Find(assignmentLinkSelector)
	if !ok {
		return "", false
	}
	link, ok := anchor.Href(base)
	if !ok {
		return "", false
	}
	return link.String(), true
}

// parseRow returns false for rows that are completed or that lack a name or link.
func (s *Scraper) parseRow(row htmlutil.Element) (assignment Assignment, ok bool) {
	defer func() {
		r := recover()
		if r != nil {
			s.tel.ReportWarning(
				report_scraper_list_unsubmitted,
				fmt.Errorf("parse row: %v", r),
			)
			assignment = Assignment{}
			ok = false
		}
	}()

	header, found := assignmentHeader(row)
	if !found {
		s.tel.ReportDebug("skipped row without header cell")
		return Assignment{}, false
	}
	name := header.Text()
	link, found := assignmentLink(s.site.BaseUrl, header)
	if name == "" || !found {
		s.tel.ReportDebug("skipped row without name or link", name)
		return Assignment{}, false
	}

	cells := row.Children("td")

	var status string
	if len(cells) > 0 {
		if isCompleted(cells[0]) {
			return Assignment{}, false
		}
		status = cells[0].Text()
	}

	var dueDate string
	if len(cells) >= 2 {
		dueDate = cells[len(cells)-2].Text()
	} else {
		s.tel.ReportDebug("row has too few cells for a due date", name, len(cells))
	}

	return Assignment{
		Name:    name,
		Link:    link,
		Status:  status,
		DueDate: dueDate,
	}, true
}

func (s *Scraper) parseAssignments(doc htmlutil.Document) ([]Assignment, error) {
	table, ok := doc.Find(assignmentTableSelector)
	if !ok {
		return nil, fmt.Errorf("could not find '%s'", assignmentTableSelector)
	}
	body, ok := table.Find("tbody")
	if !ok {
		return nil, fmt.Errorf("could not find the body of '%s'", assignmentTableSelector)
	}

	// only direct children, collapsible groups nest their own rows
	rows := body.Children("tr")
	s.tel.ReportDebug("found assignment rows", len(rows))

	var assignments []Assignment
	for _, row := range rows {
		assignment, ok := s.parseRow(row)
		if !ok {
			continue
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// Unsubmitted lists the assignments of a course that have not been submitted or graded.
// Any failure is reported and results in no assignments for the course.
func (s *Scraper) Unsubmitted(ctx context.Context, courseUrl *url.URL) []Assignment {
	endpoint := courseUrl.String()
	s.tel.ReportDebug("get assignments", endpoint)

	doc, err := s.fetchDocument(ctx, endpoint)
	if err != nil {
		s.tel.ReportBroken(report_scraper_list_unsubmitted, err, endpoint)
		return nil
	}

	assignments, err := s.parseAssignments(doc)
	if err != nil {
		s.tel.ReportWarning(report_scraper_list_unsubmitted, err, endpoint)
		return nil
	}

	s.tel.ReportCount(report_scraper_list_unsubmitted, int64(len(assignments)))
	return assignments
}
