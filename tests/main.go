package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containeroo/tinyflags"
	"gopkg.in/yaml.v3"
)

// Config is the mock Jira configuration root.
type Config struct {
	Port        int               `yaml:"port"`
	DataDir     string            `yaml:"dataDir"`
	APIPrefix   string            `yaml:"apiPrefix"` // e.g. /rest/api/3
	RandomDelay bool              `yaml:"randomDelay"`
	Search      *Select           `yaml:"search"`
	Issues      map[string]*Issue `yaml:"issues"`
}

// Select configures how the mock chooses which search fixture to serve.
type Select struct {
	From         string `yaml:"from,omitempty"`         // "query" | "header" | "static"
	Key          string `yaml:"key,omitempty"`          // name of param/header (unused for static)
	Regex        string `yaml:"regex,omitempty"`        // optional regex with 1 capture group used as token
	FileTemplate string `yaml:"fileTemplate,omitempty"` // template like "%s.json" (default)
	Static       string `yaml:"static,omitempty"`       // used when From == "static"
}

// Issue is the mutable workflow state of one ticket.
type Issue struct {
	Status      string       `yaml:"status"`
	Transitions []Transition `yaml:"transitions"`
	Comments    []string     `yaml:"-"`
}

// Transition is one workflow edge offered for an issue.
type Transition struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	To   string `yaml:"to"`
}

// store guards the issue state across requests.
type store struct {
	mu     sync.Mutex
	issues map[string]*Issue
}

// main starts the mock Jira with required YAML config.
func main() {
	var (
		flagConfigPath string
		flagLogBody    bool
	)

	tf := tinyflags.NewFlagSet("mock-jira", tinyflags.ExitOnError)
	tf.StringVar(&flagConfigPath, "config", "", "Path to mock-jira config.yaml (required)").Value()
	tf.BoolVar(&flagLogBody, "log-body", false, "Log JSON request bodies (may contain secrets)")

	if err := tf.Parse(os.Args[1:]); err != nil {
		log.Fatal("flag parse error:", err)
	}

	if strings.TrimSpace(flagConfigPath) == "" {
		log.Fatal("missing required --config=<path to yaml>")
	}

	cfg, err := loadConfig(flagConfigPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// absolute stays absolute
	if !filepath.IsAbs(cfg.DataDir) {
		base := filepath.Dir(flagConfigPath)
		cfg.DataDir, _ = filepath.Abs(filepath.Join(base, cfg.DataDir))
	}

	st := &store{issues: cfg.Issues}
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if cfg.RandomDelay {
				applyRandomDelay(200, 1000)
			}
			logRequest(r, flagLogBody)
			h(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+cfg.APIPrefix+"/search", wrap(func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, cfg)
	}))
	mux.HandleFunc("GET "+cfg.APIPrefix+"/search/jql", wrap(func(w http.ResponseWriter, r *http.Request) {
		handleSearch(w, r, cfg)
	}))
	mux.HandleFunc("GET "+cfg.APIPrefix+"/issue/{key}/transitions", wrap(st.handleListTransitions))
	mux.HandleFunc("POST "+cfg.APIPrefix+"/issue/{key}/transitions", wrap(st.handleDoTransition))

	addr := ":" + strconv.Itoa(cfg.Port)
	log.Printf("Mock Jira listening on %s%s (data-dir: %s, issues: %d)", addr, cfg.APIPrefix, cfg.DataDir, len(cfg.Issues))
	log.Fatal(http.ListenAndServe(addr, mux))
}

// loadConfig reads and validates the YAML configuration file.
func loadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}

	// Basic defaults.
	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./data"
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/rest/api/3"
	}
	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	if cfg.Issues == nil {
		cfg.Issues = map[string]*Issue{}
	}

	if cfg.Search == nil {
		return Config{}, errors.New("missing search block")
	}
	if cfg.Search.FileTemplate == "" {
		cfg.Search.FileTemplate = "%s.json"
	}
	if strings.EqualFold(cfg.Search.From, "static") && strings.TrimSpace(cfg.Search.Static) == "" {
		return Config{}, errors.New("search.static must be set when search.from=static")
	}

	for key, is := range cfg.Issues {
		if is == nil {
			return Config{}, fmt.Errorf("issue %q: empty definition", key)
		}
		for _, tr := range is.Transitions {
			if tr.ID == "" || tr.To == "" {
				return Config{}, fmt.Errorf("issue %q: transitions need id and to", key)
			}
		}
	}

	return cfg, nil
}

// handleSearch serves the fixture selected by the search config.
func handleSearch(w http.ResponseWriter, r *http.Request, cfg Config) {
	token, err := selectDataToken(r, cfg.Search)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "selection error: "+err.Error())
		return
	}

	fileName := cfg.Search.Static
	if !strings.EqualFold(cfg.Search.From, "static") {
		fileName = fmt.Sprintf(cfg.Search.FileTemplate, token)
	}

	filePath := filepath.Join(cfg.DataDir, fileName)
	raw, err := os.ReadFile(filePath)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "mock data not found: "+fileName)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

// handleListTransitions lists the transitions of one issue.
func (s *store) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	s.mu.Lock()
	is, ok := s.issues[key]
	var list []map[string]any
	if ok {
		for _, tr := range is.Transitions {
			list = append(list, map[string]any{
				"id":   tr.ID,
				"name": tr.Name,
				"to":   map[string]string{"name": tr.To},
			})
		}
	}
	s.mu.Unlock()

	if !ok {
		writeErrors(w, http.StatusNotFound, "Issue does not exist or you do not have permission to see it.")
		return
	}
	if list == nil {
		list = []map[string]any{}
	}
	b, _ := json.Marshal(map[string]any{"transitions": list})
	writeJSON(w, http.StatusOK, b)
}

// handleDoTransition applies a transition by id and records an optional comment.
func (s *store) handleDoTransition(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req struct {
		Transition struct {
			ID string `json:"id"`
		} `json:"transition"`
		Update struct {
			Comment []struct {
				Add struct {
					Body json.RawMessage `json:"body"`
				} `json:"add"`
			} `json:"comment"`
		} `json:"update"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	is, ok := s.issues[key]
	if !ok {
		writeErrors(w, http.StatusNotFound, "Issue does not exist or you do not have permission to see it.")
		return
	}

	for _, tr := range is.Transitions {
		if tr.ID != req.Transition.ID {
			continue
		}
		is.Status = tr.To
		for _, c := range req.Update.Comment {
			is.Comments = append(is.Comments, string(c.Add.Body))
		}
		log.Printf("%s -> %s (comments: %d)", key, is.Status, len(is.Comments))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeErrors(w, http.StatusBadRequest, fmt.Sprintf("Transition id '%s' is not valid for this issue.", req.Transition.ID))
}

// selectDataToken extracts the file token according to the Select config.
func selectDataToken(r *http.Request, s *Select) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s.From)) {
	case "static":
		return s.Static, nil

	case "query":
		val := r.URL.Query().Get(s.Key)
		return applyRegex(val, s.Regex)

	case "header":
		val := r.Header.Get(s.Key)
		return applyRegex(val, s.Regex)

	default:
		return "", fmt.Errorf("unsupported select.from=%q", s.From)
	}
}

// applyRegex returns the first capture group if regex is provided, otherwise the raw value.
func applyRegex(s, re string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty selection value")
	}
	if strings.TrimSpace(re) == "" {
		return s, nil
	}
	rx, err := regexp.Compile(re)
	if err != nil {
		return "", fmt.Errorf("bad regex: %w", err)
	}
	m := rx.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", errors.New("no regex capture match")
	}
	return m[1], nil
}

// writeErrors writes a Jira-shaped error body.
func writeErrors(w http.ResponseWriter, status int, msgs ...string) {
	b, _ := json.Marshal(map[string]any{"errorMessages": msgs, "errors": map[string]string{}})
	writeJSON(w, status, b)
}

// writeJSON writes a JSON response with status and bytes.
func writeJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// applyRandomDelay sleeps for a random duration between minMs and maxMs.
func applyRandomDelay(minMs, maxMs int) {
	if maxMs <= minMs {
		maxMs = minMs + 1
	}
	delta := rand.Intn(maxMs-minMs) + minMs
	time.Sleep(time.Duration(delta) * time.Millisecond)
}

// logRequest logs method, path, query, headers and optionally the JSON body.
func logRequest(r *http.Request, logBody bool) {
	redacted := http.Header{}
	for k, vv := range r.Header {
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
			redacted[k] = []string{"<redacted>"}
		} else {
			redacted[k] = vv
		}
	}

	var bodyPreview string
	if logBody && r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		bodyPreview = string(b)
		r.Body = io.NopCloser(strings.NewReader(bodyPreview))
	}

	log.Printf("REQ %s %s?%s headers=%v body=%s",
		r.Method, r.URL.Path, r.URL.RawQuery, redacted, truncate(bodyPreview, 2048))
}

// truncate returns at most n bytes of s.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
