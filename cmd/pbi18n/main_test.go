package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/blenderbox/pbi18n/cache"
	"github.com/blenderbox/pbi18n/internal/pbfake"
	"github.com/blenderbox/pbi18n/pocketbase"
)

const (
	adminName     = "admin@example.com"
	adminPassword = "secret"
)

// cleanEnv clears every variable the CLI reads and stubs the terminal.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PB_I18N_URL", "PB_I18N_ADMIN_NAME", "PB_I18N_ADMIN_PASSWORD", "PB_I18N_CONFIG", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}

	origTerm, origRead := isTerminal, readPassword
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })
}

func startServer(t *testing.T) *pbfake.Server {
	t.Helper()
	srv := pbfake.New()
	t.Cleanup(srv.Close)
	srv.AddAdmin(adminName, adminPassword)
	return srv
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func withServer(srv *pbfake.Server, args ...string) []string {
	return append([]string{"--url", srv.URL, "--admin", adminName, "--password", adminPassword}, args...)
}

func TestRun_Version(t *testing.T) {
	cleanEnv(t)

	stdout, _, code := execute(t, "version")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(stdout, "pbi18n ") {
		t.Errorf("expected version output, got: %q", stdout)
	}
}

func TestRun_MissingURL(t *testing.T) {
	cleanEnv(t)

	_, stderr, code := execute(t, "read", "en", "common")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "pocketbase url is required") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_ReadArgs(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	_, stderr, code := execute(t, withServer(srv, "read", "en")...)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "accepts 2 arg(s)") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Read(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)
	srv.AddCollection("de_common", nil,
		pocketbase.Record{"key": "save", "translation": "Speichern"},
		pocketbase.Record{"key": "cancel", "translation": "Abbrechen"},
	)

	stdout, stderr, code := execute(t, withServer(srv, "read", "de", "common")...)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if got["save"] != "Speichern" || got["cancel"] != "Abbrechen" {
		t.Errorf("got %v", got)
	}
}

func TestRun_ReadMissingCollection(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	_, stderr, code := execute(t, withServer(srv, "read", "fr", "common")...)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "error:") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_FlagsOverrideEnv(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)
	srv.AddCollection("en_common", nil, pocketbase.Record{"key": "a", "translation": "A"})

	t.Setenv("PB_I18N_URL", "http://127.0.0.1:1")
	t.Setenv("PB_I18N_ADMIN_NAME", adminName)
	t.Setenv("PB_I18N_ADMIN_PASSWORD", adminPassword)

	if _, stderr, code := execute(t, "--url", srv.URL, "read", "en", "common"); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
}

func TestRun_Create(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	_, stderr, code := execute(t, withServer(srv, "create", "common", "greeting", "Hello", "--lang", "en", "--lang", "de")...)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	for _, name := range []string{"en_common", "de_common"} {
		records := srv.Records(name)
		if len(records) != 1 || records[0]["translation"] != "Hello" {
			t.Errorf("%s records = %v", name, records)
		}
	}
}

func TestRun_CreateRequiresLang(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	_, stderr, code := execute(t, withServer(srv, "create", "common", "greeting")...)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, `"lang" not set`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_CreateWithoutCredentials(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	_, stderr, code := execute(t, "--url", srv.URL, "create", "common", "k", "--lang", "en")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "config error") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_PasswordPrompt(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)
	isTerminal = func() bool { return true }
	prompted := false
	readPassword = func() ([]byte, error) {
		prompted = true
		return []byte(adminPassword + "\n"), nil
	}

	_, stderr, code := execute(t, "--url", srv.URL, "--admin", adminName, "create", "common", "k", "--lang", "en")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !prompted {
		t.Error("expected a password prompt")
	}
	if !strings.Contains(stderr, "Password for "+adminName) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_PasswordPromptError(t *testing.T) {
	cleanEnv(t)
	isTerminal = func() bool { return true }
	readPassword = func() ([]byte, error) { return nil, errors.New("tty gone") }

	_, stderr, code := execute(t, "--url", "http://127.0.0.1:1", "--admin", adminName, "read", "en", "common")
	if code != 1 || !strings.Contains(stderr, "tty gone") {
		t.Errorf("code = %d, stderr = %q", code, stderr)
	}
}

func TestRun_Import(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)
	srv.AddCollection("en_common", nil, pocketbase.Record{"key": "save", "translation": "Save"})

	path := filepath.Join(t.TempDir(), "common.json")
	resources := `{"save": "Save it", "cancel": "Cancel", "menu": {"file": "File", "count": 3}}`
	if err := os.WriteFile(path, []byte(resources), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := execute(t, withServer(srv, "import", path, "--lang", "en", "--ns", "common")...)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr, "imported 3 key(s) into en_common, skipped 1 existing, 0 empty") {
		t.Errorf("stderr = %q", stderr)
	}

	got := map[string]any{}
	for _, r := range srv.Records("en_common") {
		got[r["key"].(string)] = r["translation"]
	}
	want := map[string]string{"save": "Save", "cancel": "Cancel", "menu.file": "File", "menu.count": "3"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %q", k, got[k], v)
		}
	}
}

func TestRun_ImportEmptyValue(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	path := filepath.Join(t.TempDir(), "common.json")
	if err := os.WriteFile(path, []byte(`{"a": "A", "b": "", "c": null, "d": "D"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := execute(t, withServer(srv, "import", path, "--lang", "en", "--ns", "common")...)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr, "imported 2 key(s) into en_common, skipped 0 existing, 2 empty") {
		t.Errorf("stderr = %q", stderr)
	}

	keys := map[string]bool{}
	for _, r := range srv.Records("en_common") {
		keys[r["key"].(string)] = true
	}
	if len(keys) != 2 || !keys["a"] || !keys["d"] {
		t.Errorf("records = %v, want a and d", keys)
	}
}

func TestRun_ImportIntoNewNamespace(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	path := filepath.Join(t.TempDir(), "nav.json")
	if err := os.WriteFile(path, []byte(`{"home": "Home"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, stderr, code := execute(t, withServer(srv, "import", path, "--lang", "en", "--ns", "nav")...); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !srv.HasCollection("en_nav") {
		t.Error("en_nav should have been provisioned")
	}
}

func TestRun_ImportBadFile(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := execute(t, withServer(srv, "import", path, "--lang", "en", "--ns", "common")...)
	if code != 1 || !strings.Contains(stderr, "parsing resource file") {
		t.Errorf("code = %d, stderr = %q", code, stderr)
	}
	if srv.Calls(pbfake.RouteAuth) != 0 {
		t.Error("a bad file should fail before contacting PocketBase")
	}
}

func TestRun_Export(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)
	srv.AddCollection("en_common", nil, pocketbase.Record{"key": "save", "translation": "Save"})
	srv.AddCollection("de_common", nil, pocketbase.Record{"key": "save", "translation": "Speichern"})

	out := filepath.Join(t.TempDir(), "snapshot.json")
	_, stderr, code := execute(t, withServer(srv, "export", "--lang", "en,de", "--ns", "common", "-o", out)...)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var snap cache.ExportFormat
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if snap.Collections["de_common"]["save"] != "Speichern" || snap.Collections["en_common"]["save"] != "Save" {
		t.Errorf("collections = %v", snap.Collections)
	}
	if snap.Metadata["pocketbase_url"] != srv.URL {
		t.Errorf("metadata = %v", snap.Metadata)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)
	srv.AddCollection("en_common", nil, pocketbase.Record{"key": "a", "translation": "A"})

	path := filepath.Join(t.TempDir(), "pbi18n.yaml")
	cfg := "pocketbase:\n  url: " + srv.URL + "\n  admin_name: " + adminName + "\n  admin_password: " + adminPassword + "\n"
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := execute(t, "--config", path, "read", "en", "common")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, `"a": "A"`) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_MockPrefill(t *testing.T) {
	cleanEnv(t)
	srv := startServer(t)

	path := filepath.Join(t.TempDir(), "pbi18n.toml")
	cfg := "[translate]\nenabled = true\nprovider = \"mock\"\n"
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	args := withServer(srv, "--config", path, "create", "common", "save", "Save", "--lang", "en", "--lang", "de")
	if _, stderr, code := execute(t, args...); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	if r := srv.Records("de_common"); len(r) != 1 || r[0]["translation"] != "Speichern" {
		t.Errorf("de_common = %v", r)
	}
	if r := srv.Records("en_common"); len(r) != 1 || r[0]["translation"] != "Save" {
		t.Errorf("en_common = %v", r)
	}
}

func TestParseResources(t *testing.T) {
	got, err := parseResources([]byte(`{"a": "A", "b": {"c": "C", "d": {"e": null}}, "f": true}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"a": "A", "b.c": "C", "b.d.e": "", "f": "true"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
