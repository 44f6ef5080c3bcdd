package util

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "**c123", MaskToken("abc123"))
	assert.Equal(t, "***", MaskToken("abc"))
	assert.Equal(t, "", MaskToken(""))
}

func TestIsSchemeError(t *testing.T) {
	_, err := http.Get("ftp://example.com")
	assert.True(t, IsSchemeError(err))

	assert.False(t, IsSchemeError(errors.New("connection refused")))
	assert.False(t, IsSchemeError(nil))
}

func TestLoginRetryPolicy(t *testing.T) {
	type want struct {
		retry bool
	}

	type args struct {
		resp *http.Response
		err  error
	}

	cases := map[string]struct {
		args
		want
	}{
		"Unauthorized": {
			args: args{resp: &http.Response{StatusCode: http.StatusUnauthorized}},
			want: want{retry: false},
		},
		"NotFound": {
			args: args{resp: &http.Response{StatusCode: http.StatusNotFound}},
			want: want{retry: false},
		},
		"BadGateway": {
			args: args{resp: &http.Response{StatusCode: http.StatusBadGateway}},
			want: want{retry: true},
		},
		"TooManyRequests": {
			args: args{resp: &http.Response{StatusCode: http.StatusTooManyRequests}},
			want: want{retry: true},
		},
		"ConnectionRefused": {
			args: args{err: &url.Error{Op: "Post", URL: "http://localhost", Err: errors.New("connection refused")}},
			want: want{retry: true},
		},
		"BadScheme": {
			args: args{err: &url.Error{Op: "Post", URL: "ftp://x", Err: errors.New("unsupported protocol scheme \"ftp\"")}},
			want: want{retry: false},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			retry, err := LoginRetryPolicy(context.Background(), tc.resp, tc.err)
			assert.NoError(t, err)
			assert.Equal(t, tc.want.retry, retry)
		})
	}

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		retry, err := LoginRetryPolicy(ctx, nil, errors.New("boom"))
		assert.False(t, retry)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAskBool(t *testing.T) {
	var out bytes.Buffer

	ok, err := AskBool(strings.NewReader("y\n"), &out, "Log out %s?", "admin")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Log out admin? (y/n): ", out.String())

	ok, err = AskBool(strings.NewReader("N\n"), &out, "Continue?")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = AskBool(strings.NewReader("maybe\n"), &out, "Continue?")
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{"token":"abc"}`), 0600))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"abc"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	exists, err := FileExists(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, exists)
}
