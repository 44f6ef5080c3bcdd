package auth

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	rhttp "github.com/hashicorp/go-retryablehttp"
	"github.com/panelctl/panelctl/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// Options configures the HTTP client.
type Options struct {
	// APIURL is the panel server base, e.g. https://panel-server.vercel.app
	APIURL string
	// LoginPath is appended to APIURL. Defaults to util.LoginPath.
	LoginPath string
	// WithCredentials keeps a cookie jar so cookies set by the server are
	// sent back, including across origins.
	WithCredentials bool
	Insecure        bool
	// Timeout of zero means the transport decides.
	Timeout  time.Duration
	RetryMax int
	// Transport replaces the default transport. Used by tests.
	Transport http.RoundTripper
}

// Client is the HTTP Authenticator.
type Client struct {
	url    string
	client *rhttp.Client
}

var _ Authenticator = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = util.LoginPath
	}

	client := rhttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.CheckRetry = rhttp.CheckRetry(util.LoginRetryPolicy)
	// Hand back the last response untouched so non-2xx bodies can be read.
	client.ErrorHandler = rhttp.PassthroughErrorHandler
	client.Logger = &util.ZapWrapper{}
	client.HTTPClient.Timeout = opts.Timeout

	if opts.Insecure {
		if t, ok := client.HTTPClient.Transport.(*http.Transport); ok {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	if opts.Transport != nil {
		client.HTTPClient.Transport = opts.Transport
	}

	if opts.WithCredentials {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("unable to create cookie jar: %w", err)
		}
		client.HTTPClient.Jar = jar
	}

	return &Client{
		url:    strings.TrimRight(opts.APIURL, "/") + "/" + strings.TrimLeft(loginPath, "/"),
		client: client,
	}, nil
}

// URL returns the login endpoint.
func (c *Client) URL() string {
	return c.url
}

// Login sends one POST with the credentials as JSON.
func (c *Client) Login(ctx context.Context, credentials Credentials) (TokenInfo, error) {
	zap.S().Debugf("Login attempt starting, request URL: %s", c.url)

	reqBody, err := json.Marshal(credentials)
	if err != nil {
		return TokenInfo{}, &ClientError{Err: err}
	}

	req, err := rhttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return TokenInfo{}, &ClientError{Err: fmt.Errorf("unable to create a new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	zap.S().Debugw("Sending login request", "username", credentials.Username, "withCredentials", c.client.HTTPClient.Jar != nil)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return TokenInfo{}, ctx.Err()
		}
		zap.S().Debugf("Login request failed: %s", err)
		if util.IsSchemeError(err) {
			return TokenInfo{}, &ClientError{Err: err}
		}
		return TokenInfo{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	zap.S().Debugf("Response received: %d", resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return TokenInfo{}, ctx.Err()
		}
		return TokenInfo{}, &NetworkError{Err: fmt.Errorf("unable to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &ServerError{StatusCode: resp.StatusCode, Status: statusText(resp)}
		var body errorResponse
		if json.Unmarshal(respBody, &body) == nil {
			serr.Message = body.Message
		}
		zap.S().Debugw("Login rejected", "status", resp.StatusCode, "message", serr.Message)
		return TokenInfo{}, serr
	}

	var body loginResponse
	if err := json.Unmarshal(respBody, &body); err != nil {
		zap.S().Debugf("Login response is not JSON: %s", err)
	}
	if body.Token == nil {
		return TokenInfo{}, nil
	}
	return TokenInfo{Token: *body.Token, Present: true}, nil
}

// statusText is the reason phrase the server sent, falling back to the
// standard one for the code.
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
