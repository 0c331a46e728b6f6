package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recipe_backend/internal/app/di"
	authadapters "recipe_backend/internal/feature/auth/adapters"
	authentity "recipe_backend/internal/feature/auth/domain/entity"
	recipeadapters "recipe_backend/internal/feature/recipes/adapters"
	platformdb "recipe_backend/internal/platform/db"
	"recipe_backend/internal/platform/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var (
	fortyNine = strings.Repeat("i", 49)
	fifty     = strings.Repeat("i", 50)
)

// setupServer starts the full API over an in-memory SQLite database with SQL-backed sessions.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), platformdb.NewGormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, platformdb.Migrate(db,
		&authentity.User{}, &recipeadapters.RecipeModel{}, &authadapters.SessionModel{}))

	h := di.NewHandlers(nil, db, di.Options{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	r := NewRouter(Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Session:        session.CookieOptions{Secret: "test-secret", TTL: time.Hour},
	}, h)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// browser is an HTTP client that keeps cookies between requests.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, c: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path, body string) (int, string) {
	b.t.Helper()

	req, err := http.NewRequest(method, b.base+path, strings.NewReader(body))
	require.NoError(b.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := b.c.Do(req)
	require.NoError(b.t, err)
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(res.Body)
	require.NoError(b.t, err)
	return res.StatusCode, string(raw)
}

func (b *browser) signup(username, password string) (int, string) {
	return b.do(http.MethodPost, "/signup", `{"username":"`+username+`","password":"`+password+`"}`)
}

func (b *browser) login(username, password string) (int, string) {
	return b.do(http.MethodPost, "/login", `{"username":"`+username+`","password":"`+password+`"}`)
}

func recipeJSON(ingredients, instructions string) string {
	return `{"title":"Soup","ingredients":"` + ingredients + `","instructions":"` + instructions + `","minutes_to_complete":30}`
}

func TestSignup(t *testing.T) {
	srv := setupServer(t)
	alice := newBrowser(t, srv)

	status, body := alice.do(http.MethodPost, "/signup",
		`{"username":"alice","password":"pw1","bio":"cook","image_url":"http://img/a.png"}`)

	require.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"id":1,"username":"alice","bio":"cook","image_url":"http://img/a.png"}`, body)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "$2a$")

	// signup logs the user in
	status, body = alice.do(http.MethodGet, "/check_session", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"username":"alice"`)
}

func TestSignup_Duplicate(t *testing.T) {
	srv := setupServer(t)

	status, _ := newBrowser(t, srv).signup("alice", "pw1")
	require.Equal(t, http.StatusCreated, status)

	status, body := newBrowser(t, srv).signup("alice", "other")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.JSONEq(t, `{"errors":["Username must be unique"]}`, body)

	// existing user unchanged
	status, _ = newBrowser(t, srv).login("alice", "pw1")
	assert.Equal(t, http.StatusOK, status)
	status, _ = newBrowser(t, srv).login("alice", "other")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSignup_MissingFields(t *testing.T) {
	srv := setupServer(t)
	b := newBrowser(t, srv)

	status, body := b.do(http.MethodPost, "/signup", `{"password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["Username is required."]}`, body)

	status, body = b.do(http.MethodPost, "/signup", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["Password is required."]}`, body)

	status, body = b.signup("alice", strings.Repeat("p", 73))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["Password must be at most 72 bytes long."]}`, body)

	status, body = b.do(http.MethodPost, "/signup", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["Invalid request body."]}`, body)
}

func TestLoginCheckSessionLogout(t *testing.T) {
	srv := setupServer(t)

	status, _ := newBrowser(t, srv).signup("alice", "pw1")
	require.Equal(t, http.StatusCreated, status)

	b := newBrowser(t, srv)

	status, body := b.do(http.MethodGet, "/check_session", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"message":"Not logged in"}`, body)

	status, body = b.login("alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"errors":["Invalid username or password"]}`, body)

	status, body = b.login("nobody", "pw1")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"errors":["Invalid username or password"]}`, body)

	status, body = b.login("alice", "pw1")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"username":"alice","bio":null,"image_url":null}`, body)

	status, body = b.do(http.MethodGet, "/check_session", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":1,"username":"alice","bio":null,"image_url":null}`, body)

	status, body = b.do(http.MethodDelete, "/logout", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)

	status, body = b.do(http.MethodGet, "/check_session", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"message":"Not logged in"}`, body)

	// logout is idempotent
	status, _ = b.do(http.MethodDelete, "/logout", "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRecipes_Anonymous(t *testing.T) {
	srv := setupServer(t)
	b := newBrowser(t, srv)

	status, body := b.do(http.MethodGet, "/recipes", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"errors":["Unauthorized: Must be logged in to view recipes"]}`, body)

	status, body = b.do(http.MethodPost, "/recipes", recipeJSON("water", fifty))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"errors":["Unauthorized: Must be logged in to create a recipe"]}`, body)

	status, body = b.do(http.MethodPost, "/recipes", `{"title":`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Unauthorized")
}

func TestRecipes_CreateAndList(t *testing.T) {
	srv := setupServer(t)
	b := newBrowser(t, srv)

	status, _ := b.signup("alice", "pw1")
	require.Equal(t, http.StatusCreated, status)

	status, body := b.do(http.MethodGet, "/recipes", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	status, body = b.do(http.MethodPost, "/recipes", recipeJSON("water", fortyNine))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["Instructions must be at least 50 characters long."]}`, body)

	status, body = b.do(http.MethodPost, "/recipes", recipeJSON("", "short"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["'ingredients' is required."]}`, body)

	status, body = b.do(http.MethodPost, "/recipes", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"errors":["Invalid request body."]}`, body)

	status, body = b.do(http.MethodPost, "/recipes", recipeJSON("water", fifty))
	require.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"id":1,"title":"Soup","ingredients":"water","instructions":"`+fifty+`","minutes_to_complete":30,"user_id":1}`, body)

	// every user sees every recipe
	bob := newBrowser(t, srv)
	status, _ = bob.signup("bob", "pw2")
	require.Equal(t, http.StatusCreated, status)

	status, body = bob.do(http.MethodGet, "/recipes", "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Soup", list[0]["title"])
	assert.EqualValues(t, 1, list[0]["user_id"])
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t)
	b := newBrowser(t, srv)

	status, body := b.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, body)
}

func TestCORS_Preflight(t *testing.T) {
	srv := setupServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/recipes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", res.Header.Get("Access-Control-Allow-Credentials"))
}
