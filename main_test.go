package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestResolveVersionInfo(t *testing.T) {
	tests := []struct {
		name          string
		v, c, d       string
		moduleVersion string
		settings      map[string]string
		want          [3]string
	}{
		{
			name: "ldflags win",
			v:    "v1.2.0", c: "abc", d: "2024-01-01",
			moduleVersion: "v9.9.9",
			settings:      map[string]string{"vcs.revision": "ffffffffffffffff", "vcs.time": "2025-01-01"},
			want:          [3]string{"v1.2.0", "abc", "2024-01-01"},
		},
		{
			name: "build info fills defaults",
			v:    "dev", c: "none", d: "unknown",
			moduleVersion: "v0.3.1",
			settings:      map[string]string{"vcs.revision": "0123456789abcdef", "vcs.time": "2025-02-03T04:05:06Z"},
			want:          [3]string{"v0.3.1", "0123456789ab", "2025-02-03T04:05:06Z"},
		},
		{
			name: "devel module version ignored",
			v:    "dev", c: "none", d: "unknown",
			moduleVersion: "(devel)",
			want:          [3]string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, c, d := resolveVersionInfo(tc.v, tc.c, tc.d, tc.moduleVersion, tc.settings)
			if got := [3]string{v, c, d}; got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

// executeCommand runs a cobra command with args and returns captured output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// isolate points config, session, and log files at a temp dir.
func isolate(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("MEDPLUS_SESSION_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("MEDPLUS_LOG_PATH", filepath.Join(dir, "medplus.log"))
	if baseURL != "" {
		t.Setenv("MEDPLUS_API_BASE_URL", baseURL)
	}
	return dir
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"version": false, "upload": false, "login": false, "logout": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(newRootCmd(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "Medplus ") || !strings.Contains(out, "commit:") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	if _, err := executeCommand(newRootCmd(), "upload"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestLoginRequiresToken(t *testing.T) {
	isolate(t, "")
	_, err := executeCommand(newRootCmd(), "login", "--env-file", "")
	if err == nil || !strings.Contains(err.Error(), "--token") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestLoginStoresSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/get-user" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","firstName":"Ada","lastName":"Lovelace"}}`))
	}))
	defer srv.Close()
	dir := isolate(t, srv.URL)

	out, err := executeCommand(newRootCmd(), "login", "--env-file", "", "--token", "tok-123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Ada Lovelace") {
		t.Fatalf("unexpected output %q", out)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if stored["token"] != "tok-123" {
		t.Fatalf("unexpected stored session %s", raw)
	}

	if _, err := executeCommand(newRootCmd(), "logout", "--env-file", ""); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Fatalf("expected session removed, got %v", err)
	}
}

func TestLoginRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"failed","message":"Authentication failed"}`))
	}))
	defer srv.Close()
	dir := isolate(t, srv.URL)

	_, err := executeCommand(newRootCmd(), "login", "--env-file", "", "--token", "bad")
	if err == nil || err.Error() != "authentication failed" {
		t.Fatalf("expected authentication failure, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Fatal("expected rejected session cleared")
	}
}
