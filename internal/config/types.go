package config

import (
	"net/url"
	"time"
)

// Config is the root of the ticketbridge configuration file.
type Config struct {
	Jira     JiraConfig     `yaml:"jira"`
	Search   SearchConfig   `yaml:"search"`
	Messages MessagesConfig `yaml:"messages"`

	apiURL *url.URL // set by ValidateConfig
}

// JiraConfig describes the Jira tenant the actions talk to.
type JiraConfig struct {
	APIURL        string        `yaml:"apiURL"`    // e.g. https://tenant.atlassian.net/rest/api/3/
	BrowseURL     string        `yaml:"browseURL"` // defaults to https://<host>/browse/
	SkipTLSVerify *bool         `yaml:"skipTLSVerify,omitempty"`
	Timeout       time.Duration `yaml:"timeout"`
	Auth          AuthConfig    `yaml:"auth"`
}

// AuthConfig holds exactly one of Basic or Bearer.
type AuthConfig struct {
	Basic  *BasicAuth  `yaml:"basic,omitempty"`
	Bearer *BearerAuth `yaml:"bearer,omitempty"`
}

// BasicAuth is an Atlassian account email and API token.
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// BearerAuth is a personal access or OAuth token.
type BearerAuth struct {
	Token string `yaml:"token"`
}

// SearchConfig tunes the search action.
type SearchConfig struct {
	Endpoint   string `yaml:"endpoint"`   // relative to apiURL, "search" by default
	MaxResults int    `yaml:"maxResults"` // page size, 5 by default
}

// MessagesConfig holds text/templates for action messages.
type MessagesConfig struct {
	TransitionSuccess string `yaml:"transitionSuccess"`
}

// APIURL returns the validated API base URL, nil before ValidateConfig.
func (c *Config) APIURL() *url.URL {
	return c.apiURL
}

// SkipTLS reports whether TLS verification is disabled.
func (j JiraConfig) SkipTLS() bool {
	return j.SkipTLSVerify != nil && *j.SkipTLSVerify
}
