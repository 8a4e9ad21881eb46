package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/dsm/internal/model"
	"github.com/alfredjeanlab/dsm/internal/store"
	"github.com/alfredjeanlab/dsm/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv isolates the config file and returns its path.
func setupEnv(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"DSM_CONFIG", "DSM_TIMEOUT", "DSM_LOG_LEVEL", "DSM_USERNAME", "DSM_AVATAR_URL", "NO_COLOR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_DIR", filepath.Join(dir, "xdg"))
	return filepath.Join(dir, "xdg", "discord_send_message.json")
}

func runDSM(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func readContexts(t *testing.T, path string) model.Contexts {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cs model.Contexts
	require.NoError(t, json.Unmarshal(data, &cs))
	return cs
}

type received struct {
	path  string
	query map[string]string
	msg   webhook.Message
}

// fakeDiscord answers webhook executions with increasing message ids.
type fakeDiscord struct {
	mu       sync.Mutex
	requests []received
	status   int
}

func (d *fakeDiscord) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec := received{path: r.URL.Path, query: map[string]string{}}
	for k := range r.URL.Query() {
		rec.query[k] = r.URL.Query().Get(k)
	}
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &rec.msg)
	d.requests = append(d.requests, rec)

	w.Header().Set("Content-Type", "application/json")
	if d.status != 0 {
		w.WriteHeader(d.status)
		fmt.Fprint(w, `{"message": "Unknown Webhook", "code": 10015}`)
		return
	}
	fmt.Fprintf(w, `{"id": "%d", "channel_id": "c1", "content": %q}`, 1000+len(d.requests), rec.msg.Content)
}

func newFakeDiscord(t *testing.T) (*fakeDiscord, string) {
	t.Helper()
	d := &fakeDiscord{}
	srv := httptest.NewServer(d)
	t.Cleanup(srv.Close)
	return d, srv.URL + "/api/webhooks/42/secrettoken"
}

func TestCreateContext_InheritsFromDefault(t *testing.T) {
	path := setupEnv(t)

	_, _, err := runDSM(t, "", "-u", "https://discord.com/api/webhooks/1/tok", "-s", "General")
	require.NoError(t, err)

	out, _, err := runDSM(t, "", "-c", "alerts", "-s", "Alerts")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved context "alerts"`)

	cs := readContexts(t, path)
	assert.Equal(t, &model.Context{Name: "alerts", WebhookURL: "https://discord.com/api/webhooks/1/tok", Subject: "Alerts"}, cs["alerts"])
	assert.Equal(t, &model.Context{Name: "default", WebhookURL: "https://discord.com/api/webhooks/1/tok", Subject: "General"}, cs["default"])
}

func TestSendThreadLifecycle(t *testing.T) {
	path := setupEnv(t)
	d, hook := newFakeDiscord(t)

	_, _, err := runDSM(t, "", "-c", "ci", "-u", hook, "-s", "Builds", "build", "started")
	require.NoError(t, err)
	_, _, err = runDSM(t, "", "-c", "ci", "build passed")
	require.NoError(t, err)
	_, _, err = runDSM(t, "", "-c", "ci", "-n", "next release")
	require.NoError(t, err)

	require.Len(t, d.requests, 3)

	first := d.requests[0]
	assert.Equal(t, "/api/webhooks/42/secrettoken", first.path)
	assert.Equal(t, map[string]string{"wait": "true"}, first.query)
	assert.Equal(t, "build started", first.msg.Content)
	assert.True(t, strings.HasSuffix(first.msg.ThreadName, " Builds"), "thread name = %q", first.msg.ThreadName)

	reply := d.requests[1]
	assert.Equal(t, map[string]string{"wait": "true", "thread_id": "1001"}, reply.query)
	assert.Empty(t, reply.msg.ThreadName)

	fresh := d.requests[2]
	assert.Equal(t, map[string]string{"wait": "true"}, fresh.query)
	assert.NotEmpty(t, fresh.msg.ThreadName)

	assert.Equal(t, "1003", readContexts(t, path)["ci"].ThreadID)
}

func TestSend_FromStdin(t *testing.T) {
	setupEnv(t)
	d, hook := newFakeDiscord(t)

	_, _, err := runDSM(t, "", "-u", hook)
	require.NoError(t, err)
	_, _, err = runDSM(t, "line one\nline two\n")
	require.NoError(t, err)

	require.Len(t, d.requests, 1)
	assert.Equal(t, "line one\nline two", d.requests[0].msg.Content)
}

// openStdin never reaches EOF, like stdin inherited from ssh without -t.
type openStdin struct{}

func (openStdin) Read([]byte) (int, error) {
	select {}
}

func TestSettingsOnly_DoesNotReadStdin(t *testing.T) {
	path := setupEnv(t)

	done := make(chan error, 1)
	go func() {
		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetIn(openStdin{})
		cmd.SetArgs([]string{"-c", "x", "-s", "Subj"})
		done <- cmd.Execute()
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("updating a context blocked waiting on stdin")
	}
	assert.Equal(t, "Subj", readContexts(t, path)["x"].Subject)
}

func TestSend_JSONOutput(t *testing.T) {
	setupEnv(t)
	_, hook := newFakeDiscord(t)

	out, _, err := runDSM(t, "", "-u", hook, "--json", "hi")
	require.NoError(t, err)

	var res webhook.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "1001", res.ID)
}

func TestSend_UsernameFromEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("DSM_USERNAME", "release-bot")
	d, hook := newFakeDiscord(t)

	_, _, err := runDSM(t, "", "-u", hook, "hi")
	require.NoError(t, err)

	require.Len(t, d.requests, 1)
	assert.Equal(t, "release-bot", d.requests[0].msg.Username)
}

func TestSend_MissingWebhookStillSavesContext(t *testing.T) {
	path := setupEnv(t)

	_, _, err := runDSM(t, "", "-c", "lonely", "-s", "Nobody", "hello?")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingWebhook)

	cs := readContexts(t, path)
	assert.Equal(t, "Nobody", cs["lonely"].Subject)
}

func TestSend_HTTPFailureKeepsWebhook(t *testing.T) {
	path := setupEnv(t)
	d, hook := newFakeDiscord(t)
	d.status = http.StatusNotFound

	_, _, err := runDSM(t, "", "-c", "ops", "-u", hook, "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, webhook.ErrBadResponse)
	assert.Contains(t, err.Error(), "Unknown Webhook")

	cs := readContexts(t, path)
	assert.Equal(t, hook, cs["ops"].WebhookURL)
	assert.Empty(t, cs["ops"].ThreadID)
}

func TestRmContext(t *testing.T) {
	path := setupEnv(t)

	for _, name := range []string{"a", "b"} {
		_, _, err := runDSM(t, "", "-c", name, "-s", strings.ToUpper(name))
		require.NoError(t, err)
	}

	out, _, err := runDSM(t, "", "-c", "a", "--rm-context")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted context "a"`)

	cs := readContexts(t, path)
	assert.NotContains(t, cs, "a")
	assert.Equal(t, &model.Context{Name: "b", Subject: "B"}, cs["b"])
	assert.Contains(t, cs, "default")

	_, _, err = runDSM(t, "", "-c", "ghost", "--rm-context")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NotContains(t, readContexts(t, path), "ghost", "removing must not create the context")
}

func TestRmThreadID(t *testing.T) {
	path := setupEnv(t)
	_, hook := newFakeDiscord(t)

	_, _, err := runDSM(t, "", "-c", "ci", "-u", hook, "first")
	require.NoError(t, err)
	require.NotEmpty(t, readContexts(t, path)["ci"].ThreadID)

	out, _, err := runDSM(t, "", "-c", "ci", "--rm-thread-id")
	require.NoError(t, err)
	assert.Contains(t, out, `Cleared the thread_id from context "ci"`)
	assert.Empty(t, readContexts(t, path)["ci"].ThreadID)
}

func TestRmThreadID_UnknownContext(t *testing.T) {
	path := setupEnv(t)
	_, _, err := runDSM(t, "", "-s", "General")
	require.NoError(t, err)

	_, _, err = runDSM(t, "", "-c", "ghost", "--rm-thread-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotContains(t, readContexts(t, path), "ghost", "forgetting a thread must not create the context")
}

func TestListContexts(t *testing.T) {
	setupEnv(t)

	_, _, err := runDSM(t, "", "-c", "ops", "-u", "https://discord.com/api/webhooks/9/verysecret", "-s", "Ops")
	require.NoError(t, err)

	out, _, err := runDSM(t, "", "-l")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "ops")
	assert.Contains(t, out, "https://discord.com/api/webhooks/9/very******")
	assert.NotContains(t, out, "verysecret")

	out, _, err = runDSM(t, "", "-l", "--json")
	require.NoError(t, err)
	var cs model.Contexts
	require.NoError(t, json.Unmarshal([]byte(out), &cs))
	assert.Equal(t, "https://discord.com/api/webhooks/9/verysecret", cs["ops"].WebhookURL)
}

func TestListContexts_DoesNotWrite(t *testing.T) {
	path := setupEnv(t)

	out, _, err := runDSM(t, "", "--list-contexts", "-c", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "default")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigFlag_TOML(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "contexts.toml")

	_, _, err := runDSM(t, "", "--config", path, "-c", "ops", "-s", "Ops")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[contexts.ops]")
}

func TestNoMessage_NothingSent(t *testing.T) {
	setupEnv(t)
	d, hook := newFakeDiscord(t)

	_, _, err := runDSM(t, "", "-u", hook)
	require.NoError(t, err)
	_, stderr, err := runDSM(t, "")
	require.NoError(t, err)

	assert.Empty(t, d.requests)
	assert.Contains(t, stderr, "nothing sent")
}

func TestHelp(t *testing.T) {
	setupEnv(t)
	t.Setenv("NO_COLOR", "1")

	out, _, err := runDSM(t, "", "--help")
	require.NoError(t, err)
	for _, want := range []string{"--context", "--new-message", "--rm-context", "--webhook-url", "forum"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[")
}

func TestColorizeHelpOutput(t *testing.T) {
	got := colorizeHelpOutput("Flags:\n  -c, --context string   context name (default \"default\")\n")
	assert.Contains(t, got, "\x1b[38;5;74mFlags:\x1b[0m")
	assert.Contains(t, got, "\x1b[38;5;245mstring\x1b[0m")
	assert.Contains(t, got, "\x1b[38;5;245m(default \"default\")\x1b[0m")
}
