package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/neuronotes/internal/db"
	"github.com/Skotchmaster/neuronotes/internal/nlp"
	"github.com/Skotchmaster/neuronotes/internal/repo"
	"github.com/Skotchmaster/neuronotes/internal/service"
	"github.com/Skotchmaster/neuronotes/internal/tokens"
)

type stubSummarizer struct{ err error }

func (s *stubSummarizer) Summarize(context.Context, string, int, int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "a summary", nil
}

type testServer struct {
	e       *echo.Echo
	summary *stubSummarizer
	ready   error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	r := repo.New(gdb)

	ts := &testServer{summary: &stubSummarizer{}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ts.e = NewEcho(logger)
	Register(ts.e, &Deps{
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Repo:   r,
			Tokens: tokens.NewManager([]byte("test-secret"), time.Hour),
		}},
		NotesHandler: &NotesHTTP{Svc: &service.NoteService{
			Repo:       r,
			Summarizer: ts.summary,
			Extractor:  nlp.FrequencyExtractor{},
			Ranker:     nlp.TFIDFRanker{},
		}},
		Ready: func(context.Context) error { return ts.ready },
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NeuroNotes API running!", decode[messageView](t, rec).Message)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health/ready", nil).Code)

	ts.ready = errors.New("db down")
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/health/ready", nil).Code)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	creds := map[string]string{"username": "alice", "password": "pw1"}

	rec := ts.do(t, http.MethodPost, "/register", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", user["username"])
	assert.NotZero(t, user["id"])
	assert.NotContains(t, user, "password_hash")

	rec = ts.do(t, http.MethodPost, "/register", creds)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Username already taken"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/login", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[tokenView](t, rec)
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	rec = ts.do(t, http.MethodGet, "/me", nil, echo.HeaderAuthorization, "Bearer "+tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[userView](t, rec)
	assert.Equal(t, "alice", me.Username)
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/register", map[string]string{"username": "alice", "password": "pw1"}).Code)

	wrong := ts.do(t, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "nope"})
	missing := ts.do(t, http.MethodPost, "/login", map[string]string{"username": "ghost", "password": "pw1"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.JSONEq(t, wrong.Body.String(), missing.Body.String())

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/login", `{"username":`).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/login", map[string]string{"username": "alice"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/register", map[string]string{"password": "x"}).Code)
}

func TestMeRejects(t *testing.T) {
	ts := newTestServer(t)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer not.a.token"} {
		rec := ts.do(t, http.MethodGet, "/me", nil, echo.HeaderAuthorization, h)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, h)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	}
}

func TestNotesCRUD(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/notes", map[string]any{"title": "A", "content": "x"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[noteView](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []string{}, created.Tags)
	assert.False(t, created.CreatedAt.IsZero())

	rec = ts.do(t, http.MethodPost, "/notes", map[string]any{"title": "B", "content": "y", "tags": []string{"t"}})
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]noteView](t, ts.do(t, http.MethodGet, "/notes", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, []string{"t"}, list[1].Tags)

	path := "/notes/" + itoa(created.ID)
	rec = ts.do(t, http.MethodPut, path, map[string]any{"title": "A2", "content": "x2", "tags": []string{"k"}})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[noteView](t, rec)
	assert.Equal(t, "A2", updated.Title)
	assert.Equal(t, []string{"k"}, updated.Tags)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	got := decode[noteView](t, ts.do(t, http.MethodGet, path, nil))
	assert.Equal(t, "x2", got.Content)

	rec = ts.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Note deleted"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, path, map[string]any{"title": "t", "content": "c"}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/notes/abc", nil).Code)
}

func TestCreateNoteValidation(t *testing.T) {
	ts := newTestServer(t)

	bodies := []any{
		map[string]any{"content": "x"},
		map[string]any{"title": "t"},
		map[string]any{"title": strings.Repeat("a", 101), "content": "x"},
		`{"title": 5}`,
		map[string]any{"title": "t", "content": "   "},
		map[string]any{"title": " ", "content": "x"},
	}
	for _, b := range bodies {
		assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/notes", b).Code, b)
	}
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/notes", map[string]any{"title": strings.Repeat("a", 100), "content": "x"}).Code)
}

func TestSummarizeAndTag(t *testing.T) {
	ts := newTestServer(t)

	created := decode[noteView](t, ts.do(t, http.MethodPost, "/notes", map[string]any{
		"title":   "Go",
		"content": "Goroutines are cheap. Channels connect goroutines. Goroutines scale.",
		"tags":    []string{"old"},
	}))
	id := itoa(created.ID)

	rec := ts.do(t, http.MethodPost, "/summarize/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a summary", decode[summaryView](t, rec).Summary)

	ts.summary.err = errors.New("model offline")
	assert.Equal(t, http.StatusBadGateway, ts.do(t, http.MethodPost, "/summarize/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/summarize/999", nil).Code)

	rec = ts.do(t, http.MethodPost, "/tag/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tags := decode[tagsView](t, rec).Tags
	require.NotEmpty(t, tags)
	assert.LessOrEqual(t, len(tags), nlp.DefaultKeywords)
	assert.Equal(t, "goroutines", tags[0])

	got := decode[noteView](t, ts.do(t, http.MethodGet, "/notes/"+id, nil))
	assert.Equal(t, tags, got.Tags)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/tag/999", nil).Code)
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/notes/search", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/notes/search?q=", nil).Code)

	rec := ts.do(t, http.MethodGet, "/notes/search?q=go", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	ts.do(t, http.MethodPost, "/notes", map[string]any{"title": "Shopping", "content": "milk eggs bread"})
	rec = ts.do(t, http.MethodGet, "/notes/search?q=%20%20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	golang := decode[noteView](t, ts.do(t, http.MethodPost, "/notes", map[string]any{"title": "Golang", "content": "goroutines and channels"}))

	hits := decode[[]noteView](t, ts.do(t, http.MethodGet, "/notes/search?q=channels", nil))
	require.Len(t, hits, 1)
	assert.Equal(t, golang.ID, hits[0].ID)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodOptions, "/notes", nil,
		echo.HeaderOrigin, "http://example.com",
		echo.HeaderAccessControlRequestMethod, http.MethodPost,
	)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
