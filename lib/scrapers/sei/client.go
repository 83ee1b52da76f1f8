package sei

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"sei-exporter/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/text/encoding/charmap"
)

var tracer = otel.Tracer("scrapers/sei")

const DefaultBaseUrl = "https://www.sei.mg.gov.br"
const DefaultLoginPath = "/sip/login.php?sigla_orgao_sistema=GOVMG&sigla_sistema=SEI&infra_url=L3NlaS8="

// selects the organization before login
const orgCookieName = "SIP_U_GOVMG_SEI"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to DefaultLoginPath
	LoginPath string
	// organization code, sent as the portal's selection cookie and login field
	Orgao string
	// per-request timeout, defaults to 30s
	Timeout time.Duration
	// when set, every raw HTTP exchange is dumped there for offline inspection
	DebugOutput restyutil.InstrumentOutput
}

// Client is the authenticated SEI session: one cookie jar, one active unit.
// Login and EnsureUnit mutate it, everything else only reads. It is not safe
// for concurrent use, the portal's paging state is session-scoped.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	Orgao   string

	loginPath string

	controlUrl  string
	controlHtml string
	activeUnit  string
	switchUrl   string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	// transport-level retries cover portal instability (429/5xx) only;
	// a failed category fetch is never silently retried
	client.SetRetryCount(3)
	client.SetRetryWaitTime(time.Millisecond * 500)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if res == nil {
			return false
		}
		return res.StatusCode() == http.StatusTooManyRequests || res.StatusCode() >= 500
	})

	if opts.Orgao != "" {
		client.SetCookie(&http.Cookie{Name: orgCookieName, Value: opts.Orgao})
	}

	restyutil.InstrumentClient(client, tracer, opts.DebugOutput)

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		Orgao:     opts.Orgao,
		loginPath: opts.LoginPath,
	}
	return c, nil
}

// ActiveUnit reports the unit the session currently operates under, as read
// from the latest Controle de Processos page.
func (c *Client) ActiveUnit() string { return c.activeUnit }

// the portal responds in ISO-8859-1
func decodeLatin1(body []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}

// resolves a portal-relative href against <base>/sei/
func (c *Client) absoluteUrl(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	ref, err := url.Parse(strings.TrimPrefix(href, "/"))
	if err != nil {
		return href
	}
	base := *c.BaseUrl
	base.Path = "/sei/"
	base.RawQuery = ""
	return base.ResolveReference(ref).String()
}

func (c *Client) get(ctx context.Context, op, link string) (string, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	if res.StatusCode() >= 400 {
		return "", &TransportError{Op: op, Err: fmt.Errorf("status %d", res.StatusCode())}
	}
	return decodeLatin1(res.Body()), nil
}

func (c *Client) postForm(ctx context.Context, op, link string, data map[string]string, referer string) (string, error) {
	req := c.Http.R().
		SetContext(ctx).
		SetFormData(data)
	if referer != "" {
		req.SetHeader("referer", referer)
	}
	res, err := req.Post(link)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	if res.StatusCode() >= 400 {
		return "", &TransportError{Op: op, Err: fmt.Errorf("status %d", res.StatusCode())}
	}
	return decodeLatin1(res.Body()), nil
}
