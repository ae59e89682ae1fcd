package endpoints_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	authapi "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/admin/control/endpoints"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/middleware"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/storage"
)

const jwtSecret = "supersecret"

var adminHash string

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	adminHash, err = middleware.HashPassword("correct horse")
	if err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type memStore struct {
	rows []model.DayRow
	err  error
}

func (s *memStore) UpsertDayRows(_ context.Context, rows []model.DayRow) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.rows = append(s.rows, rows...)
	return len(rows), nil
}

func (s *memStore) ListDayRows(context.Context) ([]model.DayRow, error) { return s.rows, nil }

func (s *memStore) GetDayRow(context.Context, string) (*model.DayRow, error) { return nil, nil }

type refreshCounter struct{ n int }

func (r *refreshCounter) Refresh() { r.n++ }

type env struct {
	router  *gin.Engine
	dir     string
	store   *memStore
	refresh *refreshCounter
}

func setupRouter(t *testing.T, creds authapi.Credentials) *env {
	t.Helper()
	e := &env{dir: t.TempDir(), store: &memStore{}, refresh: &refreshCounter{}}
	st := storage.NewLocalStorage(e.dir)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"},
		authapi.AuthPublicModule(jwtSecret, creds),
	)
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: jwtSecret},
		authapi.AuthSessionModule(jwtSecret, creds),
		adminapi.TimetableModule(st, "timetable.csv", e.store, e.refresh),
	)
	e.router = r
	return e
}

func defaultCreds() authapi.Credentials {
	return authapi.Credentials{Username: "imam", PasswordHash: adminHash}
}

func login(t *testing.T, r http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, r http.Handler) string {
	t.Helper()
	w := login(t, r, "imam", "correct horse")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func upload(t *testing.T, r http.Handler, tok, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/timetable", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	r.ServeHTTP(w, req)
	return w
}

const csvBody = "date,fajr,sunrise,dhuhr,asr1,asr2,maghrib,isha\n" +
	"2025-01-17,06:20,08:09,12:25,14:03,14:39,16:27,18:06\n" +
	"2025-01-16,06:21,08:10,12:24,14:02,14:37,16:25,18:05\n"

func TestLogin(t *testing.T) {
	e := setupRouter(t, defaultCreds())

	assert.Equal(t, http.StatusUnauthorized, login(t, e.router, "imam", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, login(t, e.router, "someone", "correct horse").Code)
	assert.Equal(t, http.StatusBadRequest, login(t, e.router, "", "").Code)

	tok := token(t, e.router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/admin/auth/current_profile", nil)
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "expected unauthorized without token")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/admin/auth/current_profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"imam"}`, w.Body.String())
}

func TestLogin_NotConfigured(t *testing.T) {
	e := setupRouter(t, authapi.Credentials{})
	assert.Equal(t, http.StatusServiceUnavailable, login(t, e.router, "imam", "correct horse").Code)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	e := setupRouter(t, defaultCreds())
	forged, err := middleware.GenerateJWT("imam", "not-the-secret")
	require.NoError(t, err)

	w := upload(t, e.router, forged, "t.csv", csvBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadTimetable(t *testing.T) {
	e := setupRouter(t, defaultCreds())
	tok := token(t, e.router)

	assert.Equal(t, http.StatusUnauthorized, upload(t, e.router, "", "t.csv", csvBody).Code)

	w := upload(t, e.router, tok, "Blackburn Jan.csv", csvBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Days      int    `json:"days"`
		FirstDate string `json:"first_date"`
		LastDate  string `json:"last_date"`
		Archive   string `json:"archive"`
		Stored    int    `json:"stored"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Days)
	assert.Equal(t, "2025-01-16", resp.FirstDate)
	assert.Equal(t, "2025-01-17", resp.LastDate)
	assert.Equal(t, 2, resp.Stored)
	assert.FileExists(t, resp.Archive)

	canonical, err := os.ReadFile(filepath.Join(e.dir, "timetable.csv"))
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(canonical))

	assert.Len(t, e.store.rows, 2)
	assert.Equal(t, 1, e.refresh.n)
}

func TestUploadTimetable_Rejects(t *testing.T) {
	e := setupRouter(t, defaultCreds())
	tok := token(t, e.router)

	assert.Equal(t, http.StatusBadRequest, upload(t, e.router, tok, "", "").Code)
	assert.Equal(t, http.StatusBadRequest, upload(t, e.router, tok, "t.csv", "day,fajr\nx,06:00\n").Code)
	assert.Equal(t, http.StatusBadRequest, upload(t, e.router, tok, "t.csv", "date,fajr\nsoon,06:00\n").Code)
	assert.Equal(t, 0, e.refresh.n)

	_, err := os.Stat(filepath.Join(e.dir, "timetable.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadTimetable_DBFailure(t *testing.T) {
	e := setupRouter(t, defaultCreds())
	e.store.err = errors.New("db down")
	tok := token(t, e.router)

	w := upload(t, e.router, tok, "t.csv", csvBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, e.refresh.n)
}

func TestReloadTimetable(t *testing.T) {
	e := setupRouter(t, defaultCreds())
	tok := token(t, e.router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/admin/timetable/reload", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	e.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reloading":true}`, w.Body.String())
	assert.Equal(t, 1, e.refresh.n)
}
