package util

import (
	"bufio"
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (

	// A regular expression to match the error returned by net/http when the
	// configured number of redirects is exhausted. This error isn't typed
	// specifically so we resort to matching on the error string.
	redirectsErrorRe = regexp.MustCompile(`stopped after \d+ redirects\z`)

	// A regular expression to match the error returned by net/http when the
	// scheme specified in the URL is invalid. This error isn't typed
	// specifically so we resort to matching on the error string.
	schemeErrorRe = regexp.MustCompile(`unsupported protocol scheme`)
)

// IsSchemeError reports whether err came from a request whose URL scheme
// net/http does not support.
func IsSchemeError(err error) bool {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return schemeErrorRe.MatchString(uerr.Error())
	}
	return err != nil && schemeErrorRe.MatchString(err.Error())
}

// LoginRetryPolicy decides whether a login request is retried. It only
// matters when retries are enabled in the config; by default a login is
// sent exactly once.
func LoginRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	// do not retry on context.Canceled or context.DeadlineExceeded
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		if v, ok := err.(*url.Error); ok {
			// Don't retry if the error was due to too many redirects.
			if redirectsErrorRe.MatchString(v.Error()) {
				return false, nil
			}

			// Don't retry if the error was due to an invalid protocol scheme.
			if schemeErrorRe.MatchString(v.Error()) {
				return false, nil
			}

			// Don't retry if the error was due to TLS cert verification failure.
			if _, ok := v.Err.(x509.UnknownAuthorityError); ok {
				return false, nil
			}
		}

		// The error is likely recoverable so retry.
		return true, nil
	}

	// 429 Too Many Requests is recoverable.
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}

	// A rejected login (4xx) is final. Only retry 500-range responses,
	// which relate to outages on the server side.
	if resp.StatusCode == 0 || (resp.StatusCode >= 500 && resp.StatusCode != 501) {
		return true, nil
	}

	return false, nil
}

// AskBool function asks for the user input
// for a boolean input
func AskBool(in io.Reader, out io.Writer, msg string, args ...interface{}) (bool, error) {
	_, err := fmt.Fprintf(out, fmt.Sprintf("%s (y/n): ", msg), args...)
	if err != nil {
		return false, fmt.Errorf("Unable to show options to user: %s", err.Error())
	}

	r := bufio.NewReader(in)
	byt, isPrefix, err := r.ReadLine()

	if isPrefix || err != nil {
		return false, fmt.Errorf("Unable to read i/p: %v", err)
	}

	resp := strings.TrimSpace(string(byt))
	if resp == "y" || resp == "Y" {
		return true, nil
	}

	if resp == "n" || resp == "N" {
		return false, nil
	}

	return false, fmt.Errorf("Please provide input as y or n, provided: %s", resp)
}

// MaskToken hides all but the last four characters of a token.
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

// ZapWrapper adapts the global zap logger to retryablehttp.LeveledLogger.
type ZapWrapper struct {
}

/*
	Implmenting the LeveledLogger for retry http
	type LeveledLogger interface {
		Error(msg string, keysAndValues ...interface{})
		Info(msg string, keysAndValues ...interface{})
		Debug(msg string, keysAndValues ...interface{})
		Warn(msg string, keysAndValues ...interface{})
	}
*/
func (z *ZapWrapper) Error(msg string, keysAndValues ...interface{}) {
	zap.S().Errorw(msg, keysAndValues...)
}

func (z *ZapWrapper) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Infow(msg, keysAndValues...)
}

func (z *ZapWrapper) Debug(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw(msg, keysAndValues...)
}

func (z *ZapWrapper) Warn(msg string, keysAndValues ...interface{}) {
	zap.S().Warnw(msg, keysAndValues...)
}
