package gradescope

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultBaseUrl = "https://www.gradescope.com"

// Site is where the gradescope instance lives, every absolute link built by the
// scraper is resolved against it.
type Site struct {
	BaseUrl *url.URL
}

func NewSite(baseUrl string) (Site, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseUrl))
	if err != nil {
		return Site{}, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Site{}, fmt.Errorf("base url '%s' must be absolute", baseUrl)
	}
	return Site{BaseUrl: &url.URL{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
	}}, nil
}

func (s Site) url(path string) string {
	return s.BaseUrl.ResolveReference(&url.URL{Path: path}).String()
}

func (s Site) LoginUrl() string {
	return s.url("/login")
}

func (s Site) AccountUrl() string {
	return s.url("/account")
}

func (s Site) CoursesUrl() string {
	return s.url("/courses")
}

// LandingUrls are the pages gradescope redirects to after a successful login.
func (s Site) LandingUrls() []string {
	return []string{s.CoursesUrl(), s.AccountUrl()}
}

func (s Site) Hostname() string {
	return s.BaseUrl.Hostname()
}
