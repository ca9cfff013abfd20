package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/readme-quote/internal/app"
	"github.com/jsamuelsen/readme-quote/internal/domain"
)

const (
	quoteJSON    = `{"_id":"x1","content":"Simplicity is prerequisite for reliability.","author":"Edsger Dijkstra"}`
	markedReadme = "# Project\n\n<!--QUOTE-START-->\n<!--QUOTE-END-->\n\nMore text.\n"
)

// quoteServer serves body with status on every path.
func quoteServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func writeReadme(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// runCLI runs the command line with an empty config directory.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(profileEnv, "")

	var stdout, stderr bytes.Buffer

	args = append([]string{"--config-dir", t.TempDir(), "--log-level", "error"}, args...)
	err := run(context.Background(), args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)

	assert.Equal(t, "readme-quote dev (commit unknown, built unknown)\n", stdout)
}

func TestRun_UpdateWritesQuote(t *testing.T) {
	srv := quoteServer(t, http.StatusOK, quoteJSON)
	path := writeReadme(t, markedReadme)

	stdout, _, err := runCLI(t, "--file", path, "--base-url", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "updated README.md with quote by Edsger Dijkstra\n", stdout)

	got := readFile(t, path)
	assert.True(t, strings.HasPrefix(got, "# Project\n\n<!--QUOTE-START-->\n\n<p align=\"center\""))
	assert.True(t, strings.HasSuffix(got, "</p>\n\n<!--QUOTE-END-->\n\nMore text.\n"))
	assert.Contains(t, got, "<i>“Simplicity is prerequisite for reliability.”</i><br/>")
	assert.Contains(t, got, "— Edsger Dijkstra")
}

func TestRun_SecondRunIsUpToDate(t *testing.T) {
	srv := quoteServer(t, http.StatusOK, quoteJSON)
	path := writeReadme(t, markedReadme)

	_, _, err := runCLI(t, "--file", path, "--base-url", srv.URL)
	require.NoError(t, err)
	first := readFile(t, path)

	stdout, _, err := runCLI(t, "--file", path, "--base-url", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "README.md already up to date\n", stdout)
	assert.Equal(t, first, readFile(t, path))
}

func TestRun_DryRunLeavesFile(t *testing.T) {
	srv := quoteServer(t, http.StatusOK, quoteJSON)
	path := writeReadme(t, markedReadme)

	stdout, _, err := runCLI(t, "--file", path, "--base-url", srv.URL, "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, "README.md would be updated with quote by Edsger Dijkstra (dry run)\n", stdout)
	assert.Equal(t, markedReadme, readFile(t, path))
}

func TestRun_FailuresLeaveFileUntouched(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		readme   string
		sentinel error
		message  string
	}{
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":"down"}`,
			readme:   markedReadme,
			sentinel: domain.ErrHTTPStatus,
			message:  "fetching quote: quote-service returned HTTP 500",
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `{"content": "unterminated`,
			readme:   markedReadme,
			sentinel: domain.ErrParse,
			message:  "fetching quote: parsing quote-service response",
		},
		{
			name:     "missing author",
			status:   http.StatusOK,
			body:     `{"content":"Orphan."}`,
			readme:   markedReadme,
			sentinel: domain.ErrMissingField,
			message:  "response missing author",
		},
		{
			name:     "missing marker",
			status:   http.StatusOK,
			body:     quoteJSON,
			readme:   "# No markers here\n",
			sentinel: domain.ErrMissingMarker,
			message:  "updating document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := quoteServer(t, tt.status, tt.body)
			path := writeReadme(t, tt.readme)

			stdout, _, err := runCLI(t, "--file", path, "--base-url", srv.URL)
			require.Error(t, err)

			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), tt.message)
			assert.Empty(t, stdout)
			assert.Equal(t, tt.readme, readFile(t, path))
		})
	}
}

func TestRun_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	path := writeReadme(t, markedReadme)

	_, _, err := runCLI(t, "--file", path, "--base-url", url)
	require.Error(t, err)

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, markedReadme, readFile(t, path))
}

func TestRun_CustomMarkersFromConfigFile(t *testing.T) {
	srv := quoteServer(t, http.StatusOK, quoteJSON)
	path := writeReadme(t, "before [[q]]old[[/q]] after")

	configFile := filepath.Join(t.TempDir(), "readme-quote.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
document:
  marker_style: custom
  start_marker: "[[q]]"
  end_marker: "[[/q]]"
`), 0o644))

	_, _, err := runCLI(t, "--config", configFile, "--file", path, "--base-url", srv.URL)
	require.NoError(t, err)

	got := readFile(t, path)
	assert.True(t, strings.HasPrefix(got, "before [[q]]\n\n<p"))
	assert.True(t, strings.HasSuffix(got, "</p>\n\n[[/q]] after"))
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, err := runCLI(t, "--markers", "bogus")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "invalid config")
	assert.Contains(t, err.Error(), "document.marker_style")
}

func TestRun_RejectsArguments(t *testing.T) {
	_, _, err := runCLI(t, "unexpected")
	require.Error(t, err)
}

func TestRun_CheckHealthy(t *testing.T) {
	srv := quoteServer(t, http.StatusOK, quoteJSON)
	path := writeReadme(t, markedReadme)

	stdout, _, err := runCLI(t, "check", "--file", path, "--base-url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ok    document")
	assert.Contains(t, stdout, "ok    quote-service")
	assert.Equal(t, markedReadme, readFile(t, path))
}

func TestRun_CheckReportsFailures(t *testing.T) {
	srv := quoteServer(t, http.StatusServiceUnavailable, "")
	path := writeReadme(t, "no markers")

	stdout, _, err := runCLI(t, "check", "--file", path, "--base-url", srv.URL)
	require.Error(t, err)

	assert.Equal(t, "2 of 2 checks failed", err.Error())
	assert.Contains(t, stdout, "FAIL  document:")
	assert.Contains(t, stdout, "FAIL  quote-service: quote-service returned HTTP 503")
	assert.Equal(t, "no markers", readFile(t, path))
}

func TestDescribeResult(t *testing.T) {
	quote := &domain.Quote{Text: "T", Author: "Ada Lovelace"}

	tests := []struct {
		name   string
		update *app.UpdateResult
		want   string
	}{
		{name: "unchanged", update: &app.UpdateResult{Path: "/tmp/notes.md"}, want: "notes.md already up to date"},
		{name: "written", update: &app.UpdateResult{Path: "docs/README.md", Changed: true, Written: true}, want: "updated README.md with quote by Ada Lovelace"},
		{name: "dry run", update: &app.UpdateResult{Path: "README.md", Changed: true, DryRun: true}, want: "README.md would be updated with quote by Ada Lovelace (dry run)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeResult(&app.RunResult{Quote: quote, Update: tt.update}))
		})
	}
}
