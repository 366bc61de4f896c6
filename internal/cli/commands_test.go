package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/scribe-keeper/internal/crypto"
	"github.com/MKhiriev/scribe-keeper/internal/service"
	"github.com/MKhiriev/scribe-keeper/internal/utils"
	"github.com/MKhiriev/scribe-keeper/models"
)

// ── fake diary server ────────────────────────────────────────────────────────

const fakeToken = "fake-token"

type fakeDiary struct {
	mu      sync.Mutex
	entries map[string]models.EntryResponse
	expired bool
	nextID  int
}

func newFakeDiary(t *testing.T) (*fakeDiary, *httptest.Server) {
	t.Helper()
	d := &fakeDiary{entries: make(map[string]models.EntryResponse)}

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/api/auth/register", d.auth)
	r.Post("/api/auth/login", d.auth)
	r.Group(func(r chi.Router) {
		r.Use(d.requireToken)
		r.Get("/api/entries", d.list)
		r.Get("/api/entries/by-path", d.get)
		r.Post("/api/entries", d.create)
		r.Put("/api/entries", d.update)
		r.Delete("/api/entries", d.delete)
		r.Post("/api/analysis", d.analyze)
		r.Post("/api/recommendations", d.recommend)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return d, srv
}

func (d *fakeDiary) auth(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteError(w, "bad request", http.StatusBadRequest)
		return
	}
	if creds.Password != "secret" {
		utils.WriteError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	utils.WriteJSON(w, models.AuthTokenResponse{
		AccessToken: fakeToken,
		TokenType:   "Bearer",
		User:        models.User{ID: "u-1", Username: creds.Username},
		E2ee: models.E2eeParams{
			KDF:        crypto.KdfPBKDF2SHA256,
			Salt:       "AAAAAAAAAAAAAAAAAAAAAA==",
			Iterations: 1,
		},
	}, http.StatusOK)
}

func (d *fakeDiary) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		expired := d.expired
		d.mu.Unlock()

		token, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if expired || err != nil || token != fakeToken {
			utils.WriteError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (d *fakeDiary) list(w http.ResponseWriter, _ *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	summaries := make([]models.EntrySummary, 0, len(d.entries))
	for _, e := range d.entries {
		summaries = append(summaries, models.EntrySummary{
			StoragePath:     e.StoragePath,
			CreatedAt:       e.CreatedAt,
			UpdatedAt:       e.UpdatedAt,
			TitleCiphertext: e.TitleCiphertext,
			TitleIV:         e.TitleIV,
			Algo:            e.Algo,
			Version:         e.Version,
		})
	}
	utils.WriteJSON(w, summaries, http.StatusOK)
}

func (d *fakeDiary) get(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.entries[r.URL.Query().Get("path")]
	if !ok {
		utils.WriteError(w, "Entry not found", http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, e, http.StatusOK)
}

func (d *fakeDiary) create(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "bad request", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := ""
	if req.StoragePath != nil {
		path = *req.StoragePath
	} else {
		d.nextID++
		path = fmt.Sprintf("server-%d.txt", d.nextID)
	}
	e := d.store(path, req)
	utils.WriteJSON(w, e, http.StatusCreated)
}

func (d *fakeDiary) update(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StoragePath == nil {
		utils.WriteError(w, "bad request", http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[*req.StoragePath]; !ok {
		utils.WriteError(w, "Entry not found", http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, d.store(*req.StoragePath, req), http.StatusOK)
}

func (d *fakeDiary) store(path string, req models.EntryRequest) models.EntryResponse {
	e := models.EntryResponse{
		StoragePath:       path,
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         models.NewLocalDateTime(time.Now()),
		EncryptedEnvelope: req.EncryptedEnvelope,
	}
	d.entries[path] = e
	return e
}

func (d *fakeDiary) delete(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := r.URL.Query().Get("path")
	if _, ok := d.entries[path]; !ok {
		utils.WriteError(w, "Entry not found", http.StatusNotFound)
		return
	}
	delete(d.entries, path)
	utils.WriteJSON(w, models.DeleteResponse{Deleted: true, StoragePath: path}, http.StatusOK)
}

func (d *fakeDiary) analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	utils.WriteJSON(w, models.AnalysisResponse{Keywords: strings.Fields(req.Text)}, http.StatusOK)
}

func (d *fakeDiary) recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	utils.WriteJSON(w, models.RecommendationResponse{
		Keywords: strings.Fields(req.Text),
		Songs:    []models.SongRecommendationResponse{{ArtistName: "Nina Simone", SongName: "Feeling Good", ReleaseYear: "1965"}},
		Movies:   []models.MovieRecommendationResponse{{MovieTitle: "Amélie", ReleaseYear: "2001", MovieRating: "8.3"}},
	}, http.StatusOK)
}

func (d *fakeDiary) paths() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths := make([]string, 0, len(d.entries))
	for p := range d.entries {
		paths = append(paths, p)
	}
	return paths
}

func (d *fakeDiary) setExpired(expired bool) {
	d.mu.Lock()
	d.expired = expired
	d.mu.Unlock()
}

// ── harness ──────────────────────────────────────────────────────────────────

type harness struct {
	t      *testing.T
	addr   string
	dsn    string
	logDir string
}

func newHarness(t *testing.T, addr string) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{t: t, addr: addr, dsn: filepath.Join(dir, "scribe.db"), logDir: dir}
}

// run executes one CLI invocation with stdin as input and returns stdout.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	cmd := NewRootCommand(models.NewAppBuildInfo("test", "", ""))
	var out, prompts bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&prompts)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args,
		"-a", h.addr,
		"-d", h.dsn,
		"--log-file", filepath.Join(h.logDir, "client.log"),
		"--request-timeout", "2s",
		"--no-color",
	))

	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, "args %v", args)
	return out
}

// ── flows ────────────────────────────────────────────────────────────────────

func TestRegisterWriteListShowDelete(t *testing.T) {
	diary, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)

	out := h.mustRun("alice\nsecret\n", "register")
	assert.Contains(t, out, "Registered as alice")

	out = h.mustRun("pw\n", "write", "--title", "Morning pages", "--body", "Rain on the window.")
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, "everything is synced")

	paths := diary.paths()
	require.Len(t, paths, 1)
	path := paths[0]
	assert.True(t, strings.HasSuffix(path, utils.StoragePathExt))

	out = h.mustRun("pw\n", "list")
	assert.Contains(t, out, path)
	assert.Contains(t, out, "Morning pages")

	out = h.mustRun("pw\n", "show", path)
	assert.Contains(t, out, "Morning pages")
	assert.Contains(t, out, "Rain on the window.")

	out = h.mustRun("", "status")
	assert.Contains(t, out, "User:     alice")
	assert.Contains(t, out, "Server:   online")
	assert.Contains(t, out, "Pending:  0")
	assert.Contains(t, out, "Unsynced: 0")

	out = h.mustRun("", "delete", path)
	assert.Contains(t, out, "Deleted")
	assert.Empty(t, diary.paths())

	out = h.mustRun("pw\n", "list")
	assert.Contains(t, out, "No entries yet")
}

func TestWrite_PromptsForTitleAndBody(t *testing.T) {
	diary, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("secret\n", "login", "-u", "alice")

	out := h.mustRun("pw\nEvening\nfirst line\nsecond line\n\n", "write")
	assert.Contains(t, out, "Saved")

	paths := diary.paths()
	require.Len(t, paths, 1)

	out = h.mustRun("pw\n", "show", paths[0])
	assert.Contains(t, out, "Evening")
	assert.Contains(t, out, "first line\nsecond line")
}

func TestWrite_OfflineThenSync(t *testing.T) {
	diary, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")

	offline := *h
	offline.addr = "http://127.0.0.1:1"

	out, err := offline.run("pw\n", "write", "-t", "Offline", "-b", "written on a plane")
	require.NoError(t, err)
	assert.Contains(t, out, "1 change(s) waiting, server unreachable")
	assert.Empty(t, diary.paths())

	out, err = offline.run("", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Server unreachable, 1 change(s) waiting")

	out, err = offline.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Server:   offline")
	assert.Contains(t, out, "Pending:  1")
	assert.Contains(t, out, "Unsynced: 1")

	out = h.mustRun("", "sync")
	assert.Contains(t, out, "Everything is synced")
	assert.Len(t, diary.paths(), 1)

	out = h.mustRun("", "status")
	assert.Contains(t, out, "Unsynced: 0")
}

func TestList_WrongPassphraseShowsPlaceholder(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")
	h.mustRun("pw\n", "write", "-t", "Secret title", "-b", "b")

	out := h.mustRun("not the passphrase\n", "list")

	assert.Contains(t, out, service.UndecryptableTitle)
	assert.NotContains(t, out, "Secret title")
}

func TestPull_FetchesRemoteEntries(t *testing.T) {
	diary, srv := newFakeDiary(t)
	writer := newHarness(t, srv.URL)
	writer.mustRun("alice\nsecret\n", "login")
	writer.mustRun("pw\n", "write", "-t", "From laptop", "-b", "b")
	require.Len(t, diary.paths(), 1)

	reader := newHarness(t, srv.URL)
	reader.mustRun("alice\nsecret\n", "login")

	out := reader.mustRun("", "pull")
	assert.Contains(t, out, "Pulled: 1 fetched, 0 removed, 0 unchanged")

	out = reader.mustRun("pw\n", "list")
	assert.Contains(t, out, "From laptop")
}

func TestSessionExpired_ClearsStoredSession(t *testing.T) {
	diary, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")

	diary.setExpired(true)
	_, err := h.run("", "pull")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrSessionExpired)
	assert.Contains(t, err.Error(), "session expired")

	_, err = h.run("", "status")
	assert.ErrorIs(t, err, service.ErrNoStoredSession)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)

	_, err := h.run("alice\nnope\n", "login")

	assert.ErrorIs(t, err, service.ErrWrongPassword)
	assert.Contains(t, err.Error(), "wrong username or password")
}

func TestNotLoggedIn(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)

	_, err := h.run("pw\n", "list")

	assert.ErrorIs(t, err, service.ErrNoStoredSession)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLogout(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")

	out := h.mustRun("", "logout")
	assert.Contains(t, out, "Logged out")

	_, err := h.run("", "status")
	assert.ErrorIs(t, err, service.ErrNoStoredSession)
}

func TestWrite_InvalidCreatedAt(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	_, err := h.run("", "write", "--created-at", "yesterday")

	assert.Error(t, err)
}

func TestDelete_Missing(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")

	_, err := h.run("", "delete", "missing.txt")

	assert.ErrorIs(t, err, service.ErrEntryNotFound)
}

func TestAnalyzeAndRecommend(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")

	out := h.mustRun("", "analyze", "sunny", "walk")
	assert.Contains(t, out, "Keywords: sunny, walk")

	_, err := h.run("", "analyze")
	assert.ErrorIs(t, err, errNoText)

	out = h.mustRun("", "recommend", "calm")
	assert.Contains(t, out, "Nina Simone - Feeling Good (1965)")
	assert.Contains(t, out, "Amélie (2001)")

	h.mustRun("pw\n", "write", "-t", "t", "-b", "quiet evening")
	paths := h.entryPaths(t)
	require.Len(t, paths, 1)

	out = h.mustRun("pw\n", "analyze", "--path", paths[0])
	assert.Contains(t, out, "Keywords: quiet, evening")
}

func TestAnalyze_Offline(t *testing.T) {
	_, srv := newFakeDiary(t)
	h := newHarness(t, srv.URL)
	h.mustRun("alice\nsecret\n", "login")

	offline := *h
	offline.addr = "http://127.0.0.1:1"
	_, err := offline.run("", "analyze", "text")

	assert.ErrorIs(t, err, service.ErrOffline)
}

// entryPaths lists paths through the CLI so tests do not depend on the
// fake server's state.
func (h *harness) entryPaths(t *testing.T) []string {
	t.Helper()
	out := h.mustRun("pw\n", "list")

	var paths []string
	for _, line := range strings.Split(out, "\n")[1:] {
		if fields := strings.Fields(line); len(fields) > 0 {
			paths = append(paths, fields[0])
		}
	}
	return paths
}
