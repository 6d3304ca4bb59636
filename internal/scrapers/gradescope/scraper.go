// Package gradescope scrapes a student's gradescope account: it logs in, lists the
// enrolled courses and finds the assignments that still need to be turned in.
package gradescope

import (
	"context"
	"fmt"

	"gradescope-reminder/internal/components/assert"
	"gradescope-reminder/internal/components/httpclient"
	"gradescope-reminder/internal/components/telemetry"
	"gradescope-reminder/pkg/htmlutil"
)

const (
	report_scraper_login            = "scraper.login"
	report_scraper_list_courses     = "scraper.list-courses"
	report_scraper_list_unsubmitted = "scraper.list-unsubmitted"
)

// Scraper holds the http session used to talk to gradescope, once Login succeeds the
// session carries the authentication cookie and can be used by the other methods.
type Scraper struct {
	Http *httpclient.Client

	site Site
	tel  telemetry.API
}

func NewScraper(httpClient *httpclient.Client, site Site, tel telemetry.API) *Scraper {
	assert.NotNil(httpClient)
	if site.BaseUrl == nil {
		panic("expected site to have a base url")
	}
	assert.NotEmptyStr(site.BaseUrl.Host)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("gradescope", tel)

	httpClient.SetHeader("Referer", site.LoginUrl())

	return &Scraper{
		Http: httpClient,
		site: site,
		tel:  tel,
	}
}

func (s *Scraper) Site() Site {
	return s.site
}

func (s *Scraper) fetchDocument(ctx context.Context, endpoint string) (htmlutil.Document, error) {
	res, err := s.Http.Get(ctx, endpoint)
	if err != nil {
		return htmlutil.Document{}, fmt.Errorf("fetch: %w", err)
	}
	doc, err := htmlutil.ParseDocument(res.Body())
	if err != nil {
		return htmlutil.Document{}, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}
