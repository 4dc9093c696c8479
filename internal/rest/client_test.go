package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/adam-cli/internal/project"
)

type ipv4Server struct {
	URL string
	srv *http.Server
	ln  net.Listener
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	s := &ipv4Server{
		URL: "http://" + ln.Addr().String(),
		srv: srv,
		ln:  ln,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	t.Cleanup(s.Close)
	return s
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: baseURL, Token: token, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestGetReturnsStatusAndBody(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/project", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.NoError(t, err, "request id should be a uuid")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"items":[]}`)
	}))

	c := newTestClient(t, srv.URL+"/api/", "")
	code, body, err := c.Get(context.Background(), "/project")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"items":[]}`, string(body))
}

func TestStatusCodesAreNotInterpreted(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "boom")
	}))

	c := newTestClient(t, srv.URL, "")
	code, body, err := c.Get(context.Background(), "/project/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "boom", string(body))
}

func TestPostSendsJSONAndToken(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/project", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))

		var got map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, map[string]any{"name": "Name", "parent": nil}, got)

		_ = json.NewEncoder(w).Encode(map[string]string{"uuid": "abc"})
	}))

	c := newTestClient(t, srv.URL, "s3cret")
	code, body, err := c.Post(context.Background(), "/project", map[string]any{"name": "Name", "parent": nil})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"uuid":"abc"}`, string(body))
}

func TestPostMarshalError(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", "")
	_, _, err := c.Post(context.Background(), "/project", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal request")
}

func TestDelete(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/project/abc", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	c := newTestClient(t, srv.URL, "")
	code, err := c.Delete(context.Background(), "/project/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: cannot open local listener (%v)", err)
	}
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := newTestClient(t, "http://"+addr, "")
	_, _, err = c.Get(context.Background(), "/project")
	var uerr *UnreachableError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, addr, uerr.Host)
	assert.Contains(t, err.Error(), "adam service unreachable at "+addr)
}

func TestCanceledContext(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	c := newTestClient(t, srv.URL, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := c.Get(ctx, "/project")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com", "/relative"} {
		_, err := NewClient(Options{BaseURL: raw})
		assert.Error(t, err, "base URL %q", raw)
	}
	c, err := NewClient(Options{BaseURL: "https://example.com/api/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api", c.BaseURL())
}

func TestLargeListIsReadInFull(t *testing.T) {
	const count = 12000
	items := make([]map[string]string, count)
	for i := range items {
		items[i] = map[string]string{
			"uuid":        uuid.NewString(),
			"name":        fmt.Sprintf("project-%05d", i),
			"description": strings.Repeat("d", 48),
		}
	}
	payload, err := json.Marshal(map[string]any{"items": items})
	require.NoError(t, err)
	require.Greater(t, len(payload), 1<<20, "body should be larger than 1 MiB")

	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))

	c := newTestClient(t, srv.URL, "")
	ps, err := project.New(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, count)
	assert.Equal(t, items[count-1]["uuid"], ps[count-1].UUID())
}

func TestBodyOverLimitFailsWithoutTruncating(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[{"uuid":"a"},{"uuid":"b"}]}`)
	}))

	c, err := NewClient(Options{BaseURL: srv.URL, MaxBodyBytes: 16})
	require.NoError(t, err)
	code, body, err := c.Get(context.Background(), "/project")
	var tooLarge *BodyTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(16), tooLarge.Limit)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, body)

	_, err = project.New(c).List(context.Background())
	assert.ErrorAs(t, err, &tooLarge)
	assert.NotErrorIs(t, err, project.ErrMalformedResponse)
}

func TestBodyAtLimitIsAccepted(t *testing.T) {
	const body = `{"uuid":"abc"}`
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))

	c, err := NewClient(Options{BaseURL: srv.URL, MaxBodyBytes: int64(len(body))})
	require.NoError(t, err)
	_, got, err := c.Get(context.Background(), "/project/abc")
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}
