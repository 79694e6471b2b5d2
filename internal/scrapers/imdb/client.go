package imdb

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"topactors-backend/internal/assert"
	"topactors-backend/internal/telemetry"
	libtelemetry "topactors-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultListUrl   = "https://www.imdb.com/list/ls054840033/"
	DefaultBaseUrl   = "https://www.imdb.com"
	DefaultUserAgent = "Mozilla/5.0 (compatible; TopActors/1.0)"
)

const (
	report_client_list_page = "client.list-page"
	report_client_bio       = "client.bio"
)

type ClientOptions struct {
	ListUrl   string
	BaseUrl   string
	UserAgent string
	// Timeout bounds every request made by the client, detail requests are usually
	// bounded more tightly by their own context.
	Timeout time.Duration
	// DetailRequestsPerSecond limits bio page requests, 0 means unlimited.
	DetailRequestsPerSecond float64
	CloudflareBypass        bool
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.ListUrl == "" {
		o.ListUrl = DefaultListUrl
	}
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

type Client struct {
	Http    *resty.Client
	listUrl *url.URL
	baseUrl string
	limiter *rate.Limiter
	tel     telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "tel")

	opts = opts.withDefaults()
	tel = telemetry.NewScopedAPI("imdb_scraper", tel)

	listUrl, err := url.Parse(opts.ListUrl)
	if err != nil {
		return nil, fmt.Errorf("parse list url: %w", err)
	}
	_, err = url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("accept", "text/html")
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel)
	libtelemetry.InstrumentResty(httpClient, "scrapers/imdb/http")

	c := &Client{
		Http:    httpClient,
		listUrl: listUrl,
		baseUrl: strings.TrimRight(opts.BaseUrl, "/"),
		tel:     tel,
	}
	if opts.DetailRequestsPerSecond > 0 {
		// burst of 1 so requests are spread out evenly
		c.limiter = rate.NewLimiter(rate.Limit(opts.DetailRequestsPerSecond), 1)
	}
	return c, nil
}

// ListUrl is the url of the list page, it is what relative links on the page resolve against.
func (c *Client) ListUrl() *url.URL {
	return c.listUrl
}

func (c *Client) get(ctx context.Context, link string) ([]byte, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("%s: unexpected status %s", link, res.Status())
	}
	return res.Body(), nil
}

// ListPage fetches the raw list page.
func (c *Client) ListPage(ctx context.Context) ([]byte, error) {
	body, err := c.get(ctx, c.listUrl.String())
	if err != nil {
		c.tel.ReportBroken(report_client_list_page, err)
		return nil, fmt.Errorf("fetch list page: %w", err)
	}
	return body, nil
}

func (c *Client) BioUrl(externalId string) string {
	return fmt.Sprintf("%s/name/%s/bio/", c.baseUrl, url.PathEscape(externalId))
}

// WaitDetail blocks until the detail rate limit allows another bio request.
func (c *Client) WaitDetail(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Bio fetches the bio page of a profile and extracts its biography, it returns an
// empty string without an error if the page has no biography. Callers are expected
// to call WaitDetail first.
func (c *Client) Bio(ctx context.Context, externalId string) (string, error) {
	body, err := c.get(ctx, c.BioUrl(externalId))
	if err != nil {
		return "", fmt.Errorf("fetch bio page: %w", err)
	}
	bio, err := ExtractBio(bytes.NewBuffer(body))
	if err != nil {
		c.tel.ReportDebug(report_client_bio, externalId, err)
		return "", err
	}
	return bio, nil
}
