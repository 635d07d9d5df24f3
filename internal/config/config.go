package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/containeroo/resolver"
	"gopkg.in/yaml.v3"
)

// Default values applied by ValidateConfig.
const (
	defaultSearchEndpoint = "search"
	defaultMaxResults     = 5
	defaultTimeout        = 15 * time.Second
	maxMaxResults         = 100
)

// LoadConfig loads the configuration from the given path. Unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	if err := resolveValues(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// resolveValues expands env:, file: and similar references in URLs and credentials.
func resolveValues(cfg *Config) error {
	targets := map[string]*string{
		"jira.apiURL":    &cfg.Jira.APIURL,
		"jira.browseURL": &cfg.Jira.BrowseURL,
	}
	if b := cfg.Jira.Auth.Basic; b != nil {
		targets["jira.auth.basic.username"] = &b.Username
		targets["jira.auth.basic.password"] = &b.Password
	}
	if b := cfg.Jira.Auth.Bearer; b != nil {
		targets["jira.auth.bearer.token"] = &b.Token
	}

	for field, ptr := range targets {
		val, err := resolver.ResolveVariable(*ptr)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", field, err)
		}
		*ptr = strings.TrimSpace(val)
	}
	return nil
}

// ValidateConfig checks the config and fills in defaults.
func ValidateConfig(cfg *Config) error {
	var errs []string

	apiURL, err := parseAPIURL(cfg.Jira.APIURL)
	if err != nil {
		errs = append(errs, err.Error())
	}

	basic, bearer := cfg.Jira.Auth.Basic, cfg.Jira.Auth.Bearer
	switch {
	case basic != nil && bearer != nil:
		errs = append(errs, "jira.auth: only one of basic or bearer may be set")
	case basic != nil:
		if basic.Username == "" || basic.Password == "" {
			errs = append(errs, "jira.auth.basic: username and password are required")
		} else if !strings.Contains(basic.Username, "@") {
			errs = append(errs, "jira.auth.basic.username: email must contain @")
		}
	case bearer != nil:
		if bearer.Token == "" {
			errs = append(errs, "jira.auth.bearer.token is required")
		}
	default:
		errs = append(errs, "jira.auth: basic or bearer is required")
	}

	if cfg.Jira.Timeout < 0 {
		errs = append(errs, "jira.timeout must be >= 0")
	}
	if n := cfg.Search.MaxResults; n < 0 || n > maxMaxResults {
		errs = append(errs, fmt.Sprintf("search.maxResults must be between 1 and %d", maxMaxResults))
	}

	if cfg.Jira.BrowseURL != "" {
		if u, err := url.Parse(cfg.Jira.BrowseURL); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Sprintf("jira.browseURL %q must be an absolute URL", cfg.Jira.BrowseURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	cfg.apiURL = apiURL
	setDefaults(cfg)

	return nil
}

// parseAPIURL validates the API base and ensures a trailing slash for reference resolution.
func parseAPIURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("jira.apiURL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("jira.apiURL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("jira.apiURL %q must be an absolute http(s) URL", raw)
	}
	if !strings.Contains(u.Path, "/rest/api/") {
		return nil, fmt.Errorf("jira.apiURL %q must point to /rest/api/<version>", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// setDefaults fills in missing optional fields.
func setDefaults(cfg *Config) {
	if cfg.Jira.BrowseURL == "" {
		cfg.Jira.BrowseURL = (&url.URL{Scheme: cfg.apiURL.Scheme, Host: cfg.apiURL.Host, Path: "/browse/"}).String()
	}
	if !strings.HasSuffix(cfg.Jira.BrowseURL, "/") {
		cfg.Jira.BrowseURL += "/"
	}
	if cfg.Jira.Timeout == 0 {
		cfg.Jira.Timeout = defaultTimeout
	}
	if cfg.Search.Endpoint == "" {
		cfg.Search.Endpoint = defaultSearchEndpoint
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = defaultMaxResults
	}
}
