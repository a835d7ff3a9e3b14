package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"

	"github.com/agisilaos/tod/internal/api"
	"github.com/agisilaos/tod/internal/app/tasks"
	"github.com/agisilaos/tod/internal/clock"
	"github.com/agisilaos/tod/internal/config"
	"github.com/agisilaos/tod/internal/output"
)

var testNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

// fakeTodoist serves the handful of REST endpoints the commands use.
type fakeTodoist struct {
	mu       sync.Mutex
	tasks    []api.Task
	projects []api.Project
	labels   []api.Label
	comments map[string][]api.Comment
	timezone string

	closed   []string
	updates  map[string]map[string]any
	requests []string
}

func (f *fakeTodoist) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && (path == "/tasks" || path == "/tasks/filter"):
		items := f.tasks
		if projectID := r.URL.Query().Get("project_id"); projectID != "" {
			items = nil
			for _, task := range f.tasks {
				if task.ProjectID == projectID {
					items = append(items, task)
				}
			}
		}
		writePage(w, items)
	case r.Method == http.MethodGet && path == "/projects":
		writePage(w, f.projects)
	case r.Method == http.MethodGet && path == "/labels":
		writePage(w, f.labels)
	case r.Method == http.MethodGet && path == "/comments":
		writePage(w, f.comments[r.URL.Query().Get("task_id")])
	case r.Method == http.MethodGet && path == "/user":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "u1",
			"tz_info": map[string]any{"timezone": f.timezone},
		})
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/close"):
		f.closed = append(f.closed, strings.TrimSuffix(strings.TrimPrefix(path, "/tasks/"), "/close"))
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/tasks/"):
		id := strings.TrimPrefix(path, "/tasks/")
		for _, task := range f.tasks {
			if task.ID == id {
				_ = json.NewEncoder(w).Encode(task)
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodPost && strings.HasPrefix(path, "/tasks/"):
		id := strings.TrimPrefix(path, "/tasks/")
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.updates == nil {
			f.updates = map[string]map[string]any{}
		}
		f.updates[id] = body
		_ = json.NewEncoder(w).Encode(api.Task{ID: id})
	default:
		http.NotFound(w, r)
	}
}

func writePage[T any](w io.Writer, items []T) {
	if items == nil {
		items = []T{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"results": items, "next_cursor": ""})
}

func (f *fakeTodoist) closedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.closed...)
}

func (f *fakeTodoist) update(id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[id]
}

type fakePrompter struct {
	confirm bool
	selects []string
	inputs  []string
	secrets []string
	titles  []string
}

func (p *fakePrompter) Confirm(title string) (bool, error) {
	p.titles = append(p.titles, title)
	return p.confirm, nil
}

func (p *fakePrompter) Select(title string, _ []string) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.selects) == 0 {
		return "", errors.New("no scripted selection")
	}
	choice := p.selects[0]
	p.selects = p.selects[1:]
	return choice, nil
}

func (p *fakePrompter) Input(title, _ string) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.inputs) == 0 {
		return "", errors.New("no scripted input")
	}
	value := p.inputs[0]
	p.inputs = p.inputs[1:]
	return value, nil
}

func (p *fakePrompter) Secret(title string) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.secrets) == 0 {
		return "", errors.New("no scripted secret")
	}
	value := p.secrets[0]
	p.secrets = p.secrets[1:]
	return value, nil
}

type testEnv struct {
	ctx    *Context
	api    *fakeTodoist
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T, fake *fakeTodoist) *testEnv {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	client := api.NewClient(ts.URL, "token", 2*time.Second)
	client.Limiter = nil
	ctx := &Context{
		Stdout:     stdout,
		Stderr:     stderr,
		Stdin:      strings.NewReader(""),
		Mode:       output.ModeJSON,
		Styles:     output.NewStyles(stdout, output.StyleOptions{}),
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
		Profile:    defaultProfile,
		Token:      "token",
		Tokens:     &config.TokenStore{Ring: keyring.NewArrayKeyring(nil)},
		Client:     client,
		Clock:      clock.Fixed{At: testNow},
		Prompter:   &fakePrompter{},
		Config: config.Config{
			TimeoutSeconds:   2,
			Timezone:         "UTC",
			MaxCommentLength: config.DefaultMaxCommentLength,
			SortValue:        tasks.DefaultWeights(),
		},
	}
	return &testEnv{ctx: ctx, api: fake, stdout: stdout, stderr: stderr}
}

func decodeData[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode output %q: %v", raw, err)
	}
	return env.Data
}

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with exit code %d", want)
	}
	if got := toExitCode(err); got != want {
		t.Fatalf("expected exit code %d, got %d (%v)", want, got, err)
	}
}
