package utils

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gi8lino/ticketbridge/internal/jira"
)

// ObfuscateHeader returns an obfuscated Authorization header,
// showing only the auth scheme, first 2 and last 2 characters of the token.
// Example: "Basic dZ*********X1" or "Bearer ab******yz"
func ObfuscateHeader(auth string) string {
	if auth == "" {
		return ""
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 {
		return "[invalid header]"
	}

	scheme := parts[0]
	token := strings.TrimSpace(parts[1])
	n := len(token)

	if n <= 4 {
		return scheme + " " + strings.Repeat("*", n)
	}

	return scheme + " " + token[:2] + strings.Repeat("*", n-4) + token[n-2:]
}

// GetAuthorizationHeader returns the "Authorization" header value that would be set
// by the provided AuthFunc on a dummy HTTP request.
func GetAuthorizationHeader(authFunc jira.AuthFunc) string {
	req, _ := http.NewRequest("GET", "https://dummy", nil)
	authFunc(req)
	return req.Header.Get("Authorization")
}

// NormalizeRoutePrefix returns "" or "/prefix" from input, accepting raw paths or full URLs.
func NormalizeRoutePrefix(input string) string {
	s := strings.TrimSpace(input)
	if s == "" || s == "/" {
		return ""
	}
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	if s == "/" {
		return ""
	}
	return s
}
