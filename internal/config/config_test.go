package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gi8lino/ticketbridge/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads valid YAML file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, `
jira:
  apiURL: https://andile.atlassian.net/rest/api/3
  skipTLSVerify: true
  timeout: 5s
  auth:
    basic:
      username: bot@andile.io
      password: s3cret
search:
  maxResults: 5
messages:
  transitionSuccess: "{{ .TicketKey }} is now {{ .Status }}"
`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "https://andile.atlassian.net/rest/api/3", cfg.Jira.APIURL)
		assert.True(t, cfg.Jira.SkipTLS())
		assert.Equal(t, 5*time.Second, cfg.Jira.Timeout)
		require.NotNil(t, cfg.Jira.Auth.Basic)
		assert.Equal(t, "bot@andile.io", cfg.Jira.Auth.Basic.Username)
		assert.Equal(t, "s3cret", cfg.Jira.Auth.Basic.Password)
		assert.Nil(t, cfg.Jira.Auth.Bearer)
		assert.Equal(t, 5, cfg.Search.MaxResults)
		assert.Equal(t, "{{ .TicketKey }} is now {{ .Status }}", cfg.Messages.TransitionSuccess)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, "jira:\n  apiUrl: https://x/rest/api/3\n")

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("fails if file missing", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("does-not-exist.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestLoadConfig_ResolvesReferences(t *testing.T) {
	t.Setenv("TB_TEST_JIRA_TOKEN", "  from-env  ")
	t.Setenv("TB_TEST_JIRA_API", "https://env.atlassian.net/rest/api/3/")

	path := filepath.Join(t.TempDir(), "config.yaml")
	testutils.MustWriteFile(t, path, `
jira:
  apiURL: env:TB_TEST_JIRA_API
  auth:
    bearer:
      token: env:TB_TEST_JIRA_TOKEN
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.atlassian.net/rest/api/3/", cfg.Jira.APIURL)
	require.NotNil(t, cfg.Jira.Auth.Bearer)
	assert.Equal(t, "from-env", cfg.Jira.Auth.Bearer.Token)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Jira: JiraConfig{
				APIURL: "https://andile.atlassian.net/rest/api/3",
				Auth:   AuthConfig{Basic: &BasicAuth{Username: "bot@andile.io", Password: "t"}},
			},
		}
	}

	t.Run("accepts valid config and applies defaults", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		require.NoError(t, ValidateConfig(&cfg))

		require.NotNil(t, cfg.APIURL())
		assert.Equal(t, "https://andile.atlassian.net/rest/api/3/", cfg.APIURL().String())
		assert.Equal(t, "https://andile.atlassian.net/browse/", cfg.Jira.BrowseURL)
		assert.Equal(t, 15*time.Second, cfg.Jira.Timeout)
		assert.Equal(t, "search", cfg.Search.Endpoint)
		assert.Equal(t, 5, cfg.Search.MaxResults)
		assert.False(t, cfg.Jira.SkipTLS())
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.BrowseURL = "https://jira.example.com/browse"
		cfg.Jira.SkipTLSVerify = boolPtr(true)
		cfg.Search = SearchConfig{Endpoint: "search/jql", MaxResults: 10}
		require.NoError(t, ValidateConfig(&cfg))

		assert.Equal(t, "https://jira.example.com/browse/", cfg.Jira.BrowseURL)
		assert.True(t, cfg.Jira.SkipTLS())
		assert.Equal(t, "search/jql", cfg.Search.Endpoint)
		assert.Equal(t, 10, cfg.Search.MaxResults)
	})

	t.Run("bearer auth", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.Auth = AuthConfig{Bearer: &BearerAuth{Token: "abc"}}
		assert.NoError(t, ValidateConfig(&cfg))
	})

	t.Run("collects all errors", func(t *testing.T) {
		t.Parallel()

		cfg := Config{
			Jira:   JiraConfig{APIURL: "https://site.com/invalid/path", Timeout: -time.Second},
			Search: SearchConfig{MaxResults: 500},
		}
		err := ValidateConfig(&cfg)
		require.Error(t, err)

		msg := err.Error()
		assert.Contains(t, msg, "config validation failed")
		assert.Contains(t, msg, "must point to /rest/api/<version>")
		assert.Contains(t, msg, "jira.auth: basic or bearer is required")
		assert.Contains(t, msg, "jira.timeout must be >= 0")
		assert.Contains(t, msg, "search.maxResults must be between 1 and 100")
		assert.Nil(t, cfg.APIURL())
	})

	t.Run("missing api url", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.APIURL = ""
		assert.ErrorContains(t, ValidateConfig(&cfg), "jira.apiURL is required")
	})

	t.Run("relative api url", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.APIURL = "/rest/api/3"
		assert.ErrorContains(t, ValidateConfig(&cfg), "must be an absolute http(s) URL")
	})

	t.Run("both auth methods", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.Auth.Bearer = &BearerAuth{Token: "x"}
		assert.ErrorContains(t, ValidateConfig(&cfg), "only one of basic or bearer")
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.Auth.Basic.Username = "invalid-email"
		assert.ErrorContains(t, ValidateConfig(&cfg), "email must contain @")
	})

	t.Run("incomplete basic auth", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.Auth.Basic.Password = ""
		assert.ErrorContains(t, ValidateConfig(&cfg), "username and password are required")
	})

	t.Run("relative browse url", func(t *testing.T) {
		t.Parallel()

		cfg := valid()
		cfg.Jira.BrowseURL = "browse/"
		assert.ErrorContains(t, ValidateConfig(&cfg), "jira.browseURL")
	})
}
