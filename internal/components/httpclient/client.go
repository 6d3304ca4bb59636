// Package httpclient is the single way the rest of the program talks HTTP. Every
// request is retried with exponential backoff and a failed request never surfaces as
// anything other than an error wrapping ErrNoResponse.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"gradescope-reminder/internal/components/assert"
	"gradescope-reminder/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_request = "client.request"
)

// ErrNoResponse means that no usable response could be obtained for a request after
// all attempts were used up, callers should give up on whatever depended on it.
var ErrNoResponse = errors.New("no response")

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	DefaultBackoff = time.Second
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36"

var defaultHeaders = map[string]string{
	"User-Agent":      userAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

type Options struct {
	// Timeout is applied to every attempt separately.
	Timeout time.Duration
	// Retries is the total amount of attempts made for a single request.
	Retries int
	// Backoff is the wait before the second attempt, it doubles with every attempt after.
	Backoff time.Duration
	// RateLimit is the maximum requests per second, 0 disables rate limiting.
	RateLimit float64
	// RedirectHost restricts redirects to the given hostname when set.
	RedirectHost string
	Headers      map[string]string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	return o
}

// Client is a cookie-keeping http session.
type Client struct {
	Http *resty.Client

	opts Options
	tel  telemetry.API
}

func New(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	opts = opts.withDefaults()
	assert.Positive("timeout", opts.Timeout)
	assert.Positive("retries", opts.Retries)
	assert.Positive("backoff", opts.Backoff)
	tel = telemetry.NewScopedAPI("http", tel)

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetTimeout(opts.Timeout)

	httpClient.SetHeaders(defaultHeaders)
	httpClient.SetHeaders(opts.Headers)

	if opts.RedirectHost != "" {
		httpClient.SetRedirectPolicy(
			resty.FlexibleRedirectPolicy(10),
			resty.DomainCheckRedirectPolicy(opts.RedirectHost),
		)
	}

	if opts.RateLimit > 0 {
		// max burst >= 1 just means that no requests will be dropped
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		Http: httpClient,
		opts: opts,
		tel:  tel,
	}, nil
}

func (c *Client) SetHeader(key, value string) {
	c.Http.SetHeader(key, value)
}

func (c *Client) newBackoff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = c.opts.Backoff
	exponential.Multiplier = 2
	exponential.RandomizationFactor = 0
	exponential.MaxInterval = c.opts.Backoff << c.opts.Retries
	exponential.MaxElapsedTime = 0
	exponential.Reset()

	return backoff.WithContext(
		backoff.WithMaxRetries(exponential, uint64(c.opts.Retries-1)),
		ctx,
	)
}

func isSuccess(res *resty.Response) bool {
	code := res.StatusCode()
	return code >= 200 && code < 400
}

// Do sends a request, form may be nil. If every attempt fails the returned error
// wraps ErrNoResponse.
func (c *Client) Do(ctx context.Context, method, endpoint string, form map[string]string) (*resty.Response, error) {
	var res *resty.Response
	attempt := 0

	operation := func() error {
		attempt++

		req := c.Http.R().SetContext(ctx)
		if form != nil {
			req.SetFormData(form)
		}
		r, err := req.Execute(method, endpoint)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err != nil {
			return err
		}
		if !isSuccess(r) {
			return fmt.Errorf("unexpected status: %s", r.Status())
		}

		res = r
		return nil
	}

	err := backoff.RetryNotify(
		operation,
		c.newBackoff(ctx),
		func(err error, wait time.Duration) {
			c.tel.ReportWarning(
				report_client_request,
				fmt.Errorf("attempt %d/%d failed: %w", attempt, c.opts.Retries, err),
				method,
				endpoint,
				fmt.Sprintf("retrying in %s", wait),
			)
		},
	)
	if err != nil {
		c.tel.ReportBroken(
			report_client_request,
			fmt.Errorf("attempt %d/%d failed: %w", attempt, c.opts.Retries, err),
			method,
			endpoint,
		)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNoResponse, method, endpoint, err)
	}

	return res, nil
}

func (c *Client) Get(ctx context.Context, endpoint string) (*resty.Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) PostForm(ctx context.Context, endpoint string, form map[string]string) (*resty.Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, form)
}

// FinalURL returns the url of the last request made in the redirect chain that
// produced the response.
func FinalURL(res *resty.Response) string {
	if res == nil {
		return ""
	}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL.String()
	}
	if res.Request != nil {
		return res.Request.URL
	}
	return ""
}
