package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gi8lino/ticketbridge/internal/jira"
)

// MustWriteFile writes data to a file or fails the test, creating parent directories if needed.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %q: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file %q: %v", path, err)
	}
}

// MockRequester implements jira.Requester by delegating to RequestFn.
type MockRequester struct {
	RequestFn func(ctx context.Context, method, path string, body any) (*jira.Response, error)
}

// Request calls RequestFn.
func (m *MockRequester) Request(ctx context.Context, method, path string, body any) (*jira.Response, error) {
	return m.RequestFn(ctx, method, path, body)
}

// StaticResponse returns a RequestFn that always answers with status and body.
func StaticResponse(status int, body string) func(context.Context, string, string, any) (*jira.Response, error) {
	return func(context.Context, string, string, any) (*jira.Response, error) {
		return &jira.Response{StatusCode: status, Body: []byte(body)}, nil
	}
}
