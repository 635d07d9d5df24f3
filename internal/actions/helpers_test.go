package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/gi8lino/ticketbridge/internal/jira"
)

// call records one request made through fakeJira.
type call struct {
	Method string
	Path   string
	Body   []byte
}

// reply is a canned response or error.
type reply struct {
	status int
	body   string
	err    error
}

// fakeJira answers requests in order and records them.
type fakeJira struct {
	mu      sync.Mutex
	replies []reply
	calls   []call
}

func (f *fakeJira) Request(ctx context.Context, method, path string, body any) (*jira.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	f.calls = append(f.calls, call{Method: method, Path: path, Body: raw})

	if len(f.replies) == 0 {
		panic("fakeJira: unexpected request " + method + " " + path)
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.err != nil {
		return nil, r.err
	}
	return &jira.Response{StatusCode: r.status, Body: []byte(r.body)}, nil
}

func (f *fakeJira) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

// newTestService returns a Service over replies and the buffer its logs go to.
func newTestService(t *testing.T, replies ...reply) (*Service, *fakeJira, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fj := &fakeJira{replies: replies}
	svc := NewService(fj, logger, Options{BrowseURL: "https://andile.atlassian.net/browse/"})
	return svc, fj, &logs
}

func strPtr(s string) *string { return &s }
