package jira

import (
	"fmt"
	"net/http"
	"strings"
)

// AuthFunc decorates an outgoing request with credentials.
type AuthFunc func(r *http.Request)

// NewBasicAuth authenticates with an Atlassian account email and API token.
func NewBasicAuth(email, token string) AuthFunc {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.SetBasicAuth(email, token)
	}
}

// NewBearerAuth authenticates with a personal access or OAuth token.
func NewBearerAuth(token string) AuthFunc {
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// ResolveAuth returns the appropriate AuthFunc based on provided credentials.
// It supports either Bearer token or Basic (email + API token) authentication.
func ResolveAuth(bearerToken, email, token string) (auth AuthFunc, method string, err error) {
	switch {
	case bearerToken != "":
		return NewBearerAuth(bearerToken), "Bearer", nil
	case email != "" && token != "":
		return NewBasicAuth(email, token), "Basic", nil
	default:
		return nil, "", fmt.Errorf("no valid auth method configured: must provide either bearer token or email+token")
	}
}
