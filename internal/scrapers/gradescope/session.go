package gradescope

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gradescope-reminder/internal/components/httpclient"
	"gradescope-reminder/pkg/htmlutil"
)

var ErrLoginFailed = errors.New("gradescope: login failed")

const csrfTokenSelector = "meta[name=csrf-token]"

func parseLoginToken(doc htmlutil.Document) (string, error) {
	meta, ok := doc.Find(csrfTokenSelector)
	if !ok {
		return "", fmt.Errorf("could not find '%s' on the login page", csrfTokenSelector)
	}
	token, _ := meta.Attr("content")
	if token == "" {
		return "", fmt.Errorf("'%s' has no content", csrfTokenSelector)
	}
	return token, nil
}

// Login authenticates the scraper's session. Whether it worked is decided by where
// gradescope redirects the login form to, not by the status code, since a bad
// password just lands back on the login page with a 200.
func (s *Scraper) Login(ctx context.Context, email, password string) error {
	loginError := func(err error) error {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	loginUrl := s.site.LoginUrl()

	s.tel.ReportDebug("fetching login page", loginUrl)
	doc, err := s.fetchDocument(ctx, loginUrl)
	if err != nil {
		s.tel.ReportBroken(
			report_scraper_login,
			fmt.Errorf("login page: %w", err),
		)
		return loginError(err)
	}

	token, err := parseLoginToken(doc)
	if err != nil {
		s.tel.ReportBroken(report_scraper_login, err)
		return loginError(err)
	}
	s.tel.ReportDebug("found authenticity token")

	res, err := s.Http.PostForm(ctx, loginUrl, map[string]string{
		"session[email]":     email,
		"session[password]":  password,
		"authenticity_token": token,
		"commit":             "Log In",
	})
	if err != nil {
		s.tel.ReportBroken(
			report_scraper_login,
			fmt.Errorf("submit credentials: %w", err),
		)
		return loginError(err)
	}

	finalUrl := httpclient.FinalURL(res)
	landing := s.site.LandingUrls()
	if !slices.Contains(landing, finalUrl) {
		err := fmt.Errorf("ended up on %s instead of one of %v, check the email and password", finalUrl, landing)
		s.tel.ReportWarning(report_scraper_login, err)
		return loginError(err)
	}

	s.tel.ReportDebug("logged in", finalUrl)
	return nil
}
