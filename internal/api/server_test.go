package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streed/litewrite/internal/config"
	interrors "github.com/streed/litewrite/internal/errors"
	"github.com/streed/litewrite/internal/models"
	"github.com/streed/litewrite/internal/services"
	"github.com/streed/litewrite/internal/store"
)

type stubAI struct {
	response string
	err      error
}

func (s stubAI) Complete(context.Context, string) (string, error) {
	return s.response, s.err
}

func newTestServer(t *testing.T, cfg *config.Config, opts ...services.Option) (*httptest.Server, *services.Services) {
	t.Helper()
	backend, err := store.OpenBadgerInMemory()
	require.NoError(t, err)

	if cfg == nil {
		cfg = &config.Config{StorageBackend: config.BackendBadger}
	}
	opts = append([]services.Option{services.WithClock(func() time.Time { return time.UnixMilli(1700000000000) })}, opts...)
	svc := services.NewServices(cfg, store.New(backend), opts...)
	srv := httptest.NewServer(NewAPIServer(svc).Handler())
	t.Cleanup(func() {
		srv.Close()
		svc.Close()
	})
	return srv, svc
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func do(t *testing.T, method, url string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestNotesCRUD(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1"

	status, env := do(t, http.MethodPost, base+"/notes", NoteRequest{Content: "Buy milk"})
	require.Equal(t, http.StatusCreated, status)
	var created models.Note
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "1700000000000", created.ID)

	status, env = do(t, http.MethodGet, base+"/notes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, _ = do(t, http.MethodPut, base+"/notes/"+created.ID, NoteRequest{Content: "Buy oat milk"})
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, http.MethodGet, base+"/notes", nil)
	require.Equal(t, http.StatusOK, status)
	var all []models.Note
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 1)
	assert.Equal(t, "Buy oat milk", all[0].Content)
	assert.Equal(t, created.CreatedAt, all[0].CreatedAt)

	status, _ = do(t, http.MethodDelete, base+"/notes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, http.MethodGet, base+"/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestUpsertWithID(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1"

	status, _ := do(t, http.MethodPost, base+"/notes", NoteRequest{ID: "abc", Content: "one"})
	require.Equal(t, http.StatusOK, status)
	status, env := do(t, http.MethodPost, base+"/notes", NoteRequest{ID: "abc", Content: "two"})
	require.Equal(t, http.StatusOK, status)

	var note models.Note
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "two", note.Content)

	status, env = do(t, http.MethodPost, base+"/notes", NoteRequest{ID: "__pref__:theme", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "reserved")
}

func TestReplaceAndSearch(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1"

	status, _ := do(t, http.MethodPut, base+"/notes", ReplaceNotesRequest{Notes: []models.Note{
		{ID: "1", Content: "Buy milk"},
		{ID: "2", Content: "Call mom"},
	}})
	require.Equal(t, http.StatusOK, status)

	status, env := do(t, http.MethodPost, base+"/notes/search", SearchRequest{Query: "mlik"})
	require.Equal(t, http.StatusOK, status)
	var found []models.Note
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Buy milk", found[0].Content)

	status, env = do(t, http.MethodPut, base+"/notes", ReplaceNotesRequest{Notes: []models.Note{
		{ID: "dup", Content: "a"},
		{ID: "dup", Content: "b"},
	}})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Error, interrors.ErrDuplicateID.Error())
}

func TestReplaceNotesValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1/notes"

	status, env := do(t, http.MethodPut, base, ReplaceNotesRequest{Notes: []models.Note{{ID: "1", Content: "a"}}})
	require.Equal(t, http.StatusOK, status)
	var stored []models.Note
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, int64(1700000000000), stored[0].CreatedAt)

	status, env = do(t, http.MethodPut, base, ReplaceNotesRequest{Notes: []models.Note{{Content: "no id"}}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, interrors.ErrInvalidNoteID.Error())

	status, env = do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Len(t, stored, 1)
}

func TestIngestStatusCodes(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1"

	status, env := do(t, http.MethodPost, base+"/ingest", IngestRequest{Raw: "```json\n[\"Buy milk\",\"Call mom\"]\n```"})
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Notes []models.Note `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Len(t, res.Notes, 2)

	status, _ = do(t, http.MethodPost, base+"/ingest", IngestRequest{Raw: "not json at all"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, http.MethodPost, base+"/import", ImportRequest{Contents: []string{"x"}})
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, http.MethodPost, base+"/import", ImportRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, http.MethodPost, base+"/generate", GenerateRequest{Topic: "cats"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestGenerateRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, nil, services.WithCompleter(stubAI{err: interrors.ErrRateLimited}))

	status, env := do(t, http.MethodPost, srv.URL+"/api/v1/generate", GenerateRequest{Topic: "cats"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.False(t, env.Success)
}

func TestTranslate(t *testing.T) {
	srv, _ := newTestServer(t, nil, services.WithCompleter(stubAI{response: "Bonjour"}))

	status, env := do(t, http.MethodPost, srv.URL+"/api/v1/translate", TranslateRequest{Text: "Hello", Language: "French"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"translation":"Bonjour"}`, string(env.Data))
}

func TestExport(t *testing.T) {
	srv, svc := newTestServer(t, nil)
	_, err := svc.Notes.ReplaceAll(context.Background(), []models.Note{
		{ID: "1", Content: "a"},
		{ID: "2", Content: "b"},
	})
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/v1/export?format=text")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "a\n\nb", string(body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "notes.txt")

	resp, err = http.Get(srv.URL + "/api/v1/export?format=json")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]", string(body))

	status, _ := do(t, http.MethodGet, srv.URL+"/api/v1/export?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPreferences(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	base := srv.URL + "/api/v1/preferences/theme"

	status, _ := do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, http.MethodPut, base, PreferenceRequest{Value: "dark"})
	require.Equal(t, http.StatusOK, status)

	status, env := do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"name":"theme","value":"dark"}`, string(env.Data))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	status, env := do(t, http.MethodGet, srv.URL+"/api/v1/health", nil)
	require.Equal(t, http.StatusOK, status)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, true, health["persistent"])
}

func TestGeminiProxy(t *testing.T) {
	var upstreamStatus int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"contents":[{"parts":[{"text":"hi"}]}]}`, string(body))
		w.WriteHeader(upstreamStatus)
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer upstream.Close()

	cfg := &config.Config{GeminiAPIURL: upstream.URL, GeminiAPIKey: "secret"}
	srv, _ := newTestServer(t, cfg)
	payload := map[string]interface{}{"contents": []interface{}{map[string]interface{}{"parts": []interface{}{map[string]string{"text": "hi"}}}}}

	upstreamStatus = http.StatusOK
	status, env := do(t, http.MethodPost, srv.URL+"/api/gemini", payload)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"candidates":[]}`, string(env.Data))

	upstreamStatus = http.StatusTooManyRequests
	status, env = do(t, http.MethodPost, srv.URL+"/api/gemini", payload)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Gemini AI request failed with status 429", env.Message)
}

func TestGeminiProxyTransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := upstream.URL
	upstream.Close()

	srv, _ := newTestServer(t, &config.Config{GeminiAPIURL: url, GeminiAPIKey: "k"})
	resp, err := http.Post(srv.URL+"/api/gemini", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server error", env.Message)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(interrors.ErrTransactionAborted))
	assert.Equal(t, http.StatusBadRequest, statusFor(interrors.ErrReservedID))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
